// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's seeded round (or reuse session)
//   - POST /daily/guess       → submit a guess for today's round
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Everyone plays the same secret: the engine seed is derived from
// date + salt, so the code of the day needs no storage. Each user gets
// one scored result per day (enforced by DB + in-memory session).

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pco10/mastermind-server/internal/daily"
	"github.com/pco10/mastermind-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily round.
type dailySession struct {
	GameID string
	UserID string
	Date   string
	Game   *game.Game
	Done   bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := time.Now().UTC()
	date := daily.DateKey(now)

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: "", Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
		return
	}
	sess := &dailySession{
		GameID: genID(),
		UserID: uid,
		Date:   date,
		Game:   game.NewMastermind(daily.Seed(now, d.salt), defaultCodeSize),
	}
	d.sessions[key] = sess
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Exact     int    `json:"exact"`
	Misplaced int    `json:"misplaced"`
	State     string `json:"state"` // in_progress | revealed | exhausted | locked
	Trials    int    `json:"trials"`
	Score     int    `json:"score"`
}

// handleGuess validates and applies a guess for today's daily round.
// On reveal or exhaustion the result is persisted, locking the day.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if p.GameID == "" {
		http.Error(w, `{"error":"missing_game_id"}`, http.StatusBadRequest)
		return
	}

	date := daily.DateKey(time.Now().UTC())

	// The Done check and Play must happen under the same lock, or two
	// concurrent guesses for one user can both pass the check.
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	g := sess.Game
	if sess.Done {
		res := dailyGuessRes{State: "locked", Trials: g.NumberOfTrials(), Score: g.Score()}
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	guess, err := parseGuess(g.Domain(), g.Size(), p.Guess)
	if err != nil {
		d.mu.Unlock()
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	g.Play(guess)
	res := dailyGuessRes{
		State:  roundState(g),
		Trials: g.NumberOfTrials(),
		Score:  g.Score(),
	}
	if last, ok := g.LastResult(); ok {
		res.Exact, res.Misplaced = last.Exact, last.Misplaced
	}
	finished := g.IsRoundFinished()
	if finished {
		sess.Done = true
	}
	d.mu.Unlock()

	// Persist and return.
	if finished {
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID:  uid,
			Date:    date,
			Variant: VariantMastermind,
			Trials:  res.Trials,
			Score:   res.Score,
		})
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
