// internal/httpserver/routes_game.go
//
// HTTP routes for free-play game sessions.
// Exposes, under optional auth:
//   - POST /game/new    → create a session (variant, code size, optional seed)
//   - POST /game/guess  → play a guess against the hidden code
//   - POST /game/hint   → disclose one secret colour (variant-priced)
//   - POST /game/round  → start a new round, score carried over
//   - GET  /game/state  → structured state + legacy status text
//   - GET  /game/best   → best trial of the round, or null
//
// The engine is the single source of truth for rules; handlers only
// validate input, serialize state, and persist finished rounds.

package httpserver

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pco10/mastermind-server/internal/game"
	"github.com/pco10/mastermind-server/internal/store"
)

const (
	// VariantBullsCows selects the binary-colour multiset variant.
	VariantBullsCows = "bullscows"
	// VariantMastermind selects the six-colour classic variant.
	VariantMastermind = "mastermind"

	defaultCodeSize = 4
	maxCodeSize     = 10
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Post("/round", s.handleNewRound)
		r.Get("/state", s.handleState)
		r.Get("/best", s.handleBest)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Variant string `json:"variant"`        // "bullscows" | "mastermind"
	Size    int    `json:"size,omitempty"` // code length, default 4
	Seed    *int64 `json:"seed,omitempty"` // fixed seed for reproducible play
}
type newGameRes struct {
	GameID  string   `json:"gameId"`
	Variant string   `json:"variant"`
	Size    int      `json:"size"`
	Colours []string `json:"colours"`
}

// handleNewGame creates a new in-memory session. The seed is taken from
// the request when given (reproducible play, testing) and drawn from
// crypto/rand otherwise.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	size := req.Size
	if size == 0 {
		size = defaultCodeSize
	}
	if size < 1 || size > maxCodeSize {
		http.Error(w, `{"error":"invalid_size"}`, http.StatusBadRequest)
		return
	}

	seed := randomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	var g *game.Game
	switch req.Variant {
	case VariantBullsCows:
		g = game.NewBullsAndCows(seed, size)
	case VariantMastermind, "":
		req.Variant = VariantMastermind
		g = game.NewMastermind(seed, size)
	default:
		http.Error(w, `{"error":"unknown_variant"}`, http.StatusBadRequest)
		return
	}

	sess := &store.Session{
		ID:        genID(),
		Variant:   req.Variant,
		Game:      g,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	labels := make([]string, 0, len(g.Domain().Colours()))
	for _, c := range g.Domain().Colours() {
		labels = append(labels, c.Label())
	}
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Variant: sess.Variant, Size: size, Colours: labels})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"` // labels, e.g. "BRYG" or "B R Y G"
}
type guessRes struct {
	Exact     int    `json:"exact"`
	Misplaced int    `json:"misplaced"`
	State     string `json:"state"` // "in_progress" | "revealed" | "exhausted"
	Trials    int    `json:"trials"`
	Score     int    `json:"score"`
	Accepted  bool   `json:"accepted"` // false when the round was already over
}

// handleGuess applies a guess to a session, persisting the round when it
// finishes. A guess against a finished round is a silent no-op, reported
// through Accepted=false.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessionOr404(w, r, req.GameID)
	if !ok {
		return
	}

	sess.Mu.Lock()
	g := sess.Game

	guess, err := parseGuess(g.Domain(), g.Size(), req.Guess)
	if err != nil {
		sess.Mu.Unlock()
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	before := g.NumberOfTrials()
	finishedBefore := g.IsRoundFinished()
	g.Play(guess)
	accepted := g.NumberOfTrials() > before

	res := guessRes{
		State:    roundState(g),
		Trials:   g.NumberOfTrials(),
		Score:    g.Score(),
		Accepted: accepted,
	}
	if accepted {
		if last, ok := g.LastResult(); ok {
			res.Exact, res.Misplaced = last.Exact, last.Misplaced
		}
	}
	finishedNow := g.IsRoundFinished()
	trials := g.NumberOfTrials()
	revealed := g.WasSecretRevealed()
	score := g.Score()
	sess.Mu.Unlock()

	if finishedNow && !finishedBefore {
		s.persistRound(r.Context(), w, r, sess, trials, revealed, score)
	}

	_ = json.NewEncoder(w).Encode(res)
}

// hintRes is returned by POST /game/hint.
type hintRes struct {
	Colour string `json:"colour"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// handleHint discloses one colour of the secret. Allowed in any round
// state; the variant's penalty applies regardless.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessionOr404(w, r, req.GameID)
	if !ok {
		return
	}

	sess.Mu.Lock()
	c := sess.Game.Hint()
	score := sess.Game.Score()
	sess.Mu.Unlock()

	_ = json.NewEncoder(w).Encode(hintRes{Colour: c.Label(), Name: c.Name(), Score: score})
}

// handleNewRound starts a fresh round. The running score carries over;
// an unfinished round is simply discarded, as in the original rules.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessionOr404(w, r, req.GameID)
	if !ok {
		return
	}

	sess.Mu.Lock()
	sess.Game.StartNewRound()
	score := sess.Game.Score()
	sess.Mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "score": score})
}

// stateRes is returned by GET /game/state.
type stateRes struct {
	GameID   string `json:"gameId"`
	Variant  string `json:"variant"`
	Size     int    `json:"size"`
	Trials   int    `json:"trials"`
	Score    int    `json:"score"`
	Revealed bool   `json:"revealed"`
	State    string `json:"state"`
	Status   string `json:"status"` // legacy renderer output
}

// handleState returns structured state plus the legacy status text.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r, r.URL.Query().Get("gameId"))
	if !ok {
		return
	}

	sess.Mu.Lock()
	g := sess.Game
	res := stateRes{
		GameID:   sess.ID,
		Variant:  sess.Variant,
		Size:     g.Size(),
		Trials:   g.NumberOfTrials(),
		Score:    g.Score(),
		Revealed: g.WasSecretRevealed(),
		State:    roundState(g),
		Status:   g.String(),
	}
	sess.Mu.Unlock()

	_ = json.NewEncoder(w).Encode(res)
}

// handleBest returns the best trial of the round, or null when the
// history is empty.
func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r, r.URL.Query().Get("gameId"))
	if !ok {
		return
	}

	sess.Mu.Lock()
	best, found := sess.Game.BestTrial()
	sess.Mu.Unlock()

	if !found {
		_ = json.NewEncoder(w).Encode(map[string]any{"best": nil})
		return
	}
	labels := make([]string, 0, best.Len())
	for _, c := range best.Colours() {
		labels = append(labels, c.Label())
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"best": labels, "rendered": best.String()})
}

// ------------------------------ helpers ------------------------------------

// sessionOr404 loads a session or writes a 404.
func (s *Server) sessionOr404(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	if id == "" {
		http.Error(w, `{"error":"missing_game_id"}`, http.StatusBadRequest)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// parseGuess turns a label string like "BRYG" (spaces and commas
// tolerated) into a Code of the session's domain.
func parseGuess(d game.Domain, size int, raw string) (game.Code, error) {
	cleaned := strings.ToUpper(strings.NewReplacer(" ", "", ",", "", "[", "", "]", "").Replace(raw))
	if len(cleaned) != size {
		return game.Code{}, errInvalidGuess
	}
	colours := make([]game.Colour, 0, size)
	for _, r := range cleaned {
		c, ok := d.Parse(string(r))
		if !ok {
			return game.Code{}, errInvalidGuess
		}
		colours = append(colours, c)
	}
	return game.NewCode(colours), nil
}

var errInvalidGuess = jsonError("invalid_guess")

// jsonError is an error whose message is safe to embed in a JSON body.
type jsonError string

func (e jsonError) Error() string { return string(e) }

// roundState maps engine flags onto the wire state string.
func roundState(g *game.Game) string {
	if !g.IsRoundFinished() {
		return "in_progress"
	}
	if g.WasSecretRevealed() {
		return "revealed"
	}
	return "exhausted"
}

// persistRound writes a finished round to the DB and bumps user stats,
// best effort: gameplay never fails on persistence errors.
func (s *Server) persistRound(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *store.Session, trials int, revealed bool, score int) {
	me, _ := ctx.Value(ctxUserKey{}).(*authUser)
	now := time.Now().UTC().Format(time.RFC3339)

	var userID, anonID any
	if me != nil {
		userID = me.ID
	} else {
		anonID = s.ensureAnonID(w, r)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin round tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	rev := 0
	if revealed {
		rev = 1
	}
	if _, err := tx.Exec(`INSERT INTO rounds (id, game_id, user_id, anonymous_id, variant, trials, revealed, score, started_at, finished_at)
	                      VALUES (?,?,?,?,?,?,?,?,?,?)`,
		genID(), sess.ID, userID, anonID, sess.Variant, trials, rev, score,
		sess.StartedAt.Format(time.RFC3339), now); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert round row")
		return
	}
	if me != nil {
		if err := s.bumpStats(tx, me.ID, revealed); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	_ = tx.Commit()
}

// randomSeed draws a non-negative engine seed from crypto/rand.
func randomSeed() int64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
}
