package httpserver_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pco10/mastermind-server/assets"
	"github.com/pco10/mastermind-server/internal/game"
	"github.com/pco10/mastermind-server/internal/httpserver"
	"github.com/pco10/mastermind-server/internal/store"
)

// newTestServer spins up the full router over an in-memory SQLite DB
// with the embedded migrations applied.
func newTestServer(t *testing.T) (*httptest.Server, *sql.DB, *http.Client) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a second connection would see a different :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	files, err := assets.MigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sqlText, err := assets.MigrationSQL(f)
		require.NoError(t, err)
		_, err = db.Exec(sqlText)
		require.NoError(t, err, "apply %s", f)
	}

	srv := httpserver.New(store.NewMemoryStore(), db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, db, &http.Client{Jar: jar}
}

// postJSON posts a JSON body and decodes the JSON response into out.
func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// getJSON fetches a URL and decodes the JSON response into out.
func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestGameFlow_Mastermind(t *testing.T) {
	ts, _, c := newTestServer(t)

	var created struct {
		GameID  string   `json:"gameId"`
		Variant string   `json:"variant"`
		Size    int      `json:"size"`
		Colours []string `json:"colours"`
	}
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]any{"variant": "mastermind", "seed": 42}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, created.GameID)
	require.Equal(t, "mastermind", created.Variant)
	require.Equal(t, 4, created.Size)
	require.Len(t, created.Colours, 6)

	// Fresh round: masked secret, no trials.
	var state struct {
		Trials   int    `json:"trials"`
		Score    int    `json:"score"`
		Revealed bool   `json:"revealed"`
		State    string `json:"state"`
		Status   string `json:"status"`
	}
	resp = getJSON(t, c, ts.URL+"/game/state?gameId="+created.GameID, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, state.Trials)
	require.Equal(t, "in_progress", state.State)
	require.Contains(t, state.Status, "[?, ?, ?, ?]")

	// No trials yet → best is null.
	var best struct {
		Best []string `json:"best"`
	}
	getJSON(t, c, ts.URL+"/game/best?gameId="+created.GameID, &best)
	require.Nil(t, best.Best)

	// Invalid guesses are rejected before reaching the engine.
	resp = postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "guess": "BRY"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "guess": "BRYZ"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A legal guess is recorded.
	var guessed struct {
		Exact     int    `json:"exact"`
		Misplaced int    `json:"misplaced"`
		State     string `json:"state"`
		Trials    int    `json:"trials"`
		Accepted  bool   `json:"accepted"`
	}
	resp = postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "guess": "BRYG"}, &guessed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, guessed.Accepted)
	require.Equal(t, 1, guessed.Trials)
	require.LessOrEqual(t, guessed.Exact+guessed.Misplaced, 4)

	getJSON(t, c, ts.URL+"/game/best?gameId="+created.GameID, &best)
	require.Len(t, best.Best, 4)

	// Hints always disclose a colour from the active domain.
	var hint struct {
		Colour string `json:"colour"`
		Name   string `json:"name"`
	}
	resp = postJSON(t, c, ts.URL+"/game/hint", map[string]any{"gameId": created.GameID}, &hint)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, []string{"B", "R", "Y", "G", "P", "O"}, hint.Colour)

	// New round clears the history but keeps the session.
	resp = postJSON(t, c, ts.URL+"/game/round", map[string]any{"gameId": created.GameID}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	getJSON(t, c, ts.URL+"/game/state?gameId="+created.GameID, &state)
	require.Equal(t, 0, state.Trials)
	require.Equal(t, "in_progress", state.State)
}

func TestGameFlow_BullsAndCowsRevealScores2000(t *testing.T) {
	ts, db, c := newTestServer(t)

	var created struct {
		GameID string `json:"gameId"`
	}
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]any{"variant": "bullscows", "seed": 7}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The binary domain has only 16 codes of length 4; walk them all.
	var final struct {
		State  string `json:"state"`
		Score  int    `json:"score"`
		Trials int    `json:"trials"`
	}
	labels := []string{"B", "W"}
	revealed := false
	for i := 0; i < 16 && !revealed; i++ {
		guess := fmt.Sprintf("%s%s%s%s",
			labels[i>>3&1], labels[i>>2&1], labels[i>>1&1], labels[i&1])
		resp = postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "guess": guess}, &final)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		revealed = final.State == "revealed"
	}
	require.True(t, revealed, "16 guesses must cover the whole binary code space")
	require.Equal(t, 2000, final.Score)

	// The finished round was persisted for the anonymous player.
	var rounds int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM rounds WHERE revealed=1`).Scan(&rounds))
	require.Equal(t, 1, rounds)

	// A hint halves the score even after the reveal.
	var hint struct {
		Score int `json:"score"`
	}
	postJSON(t, c, ts.URL+"/game/hint", map[string]any{"gameId": created.GameID}, &hint)
	require.Equal(t, 1000, hint.Score)

	// Further guesses are silently ignored.
	var noop struct {
		Accepted bool `json:"accepted"`
		Trials   int  `json:"trials"`
	}
	before := final.Trials
	postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "guess": "BBBB"}, &noop)
	require.False(t, noop.Accepted)
	require.Equal(t, before, noop.Trials)
}

func TestAuthFlow_SignupAndStats(t *testing.T) {
	ts, _, c := newTestServer(t)

	var signed struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	resp := postJSON(t, c, ts.URL+"/auth/signup", map[string]any{"username": "player_one", "password": "s3cret-pass"}, &signed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "player_one", signed.Username)

	var me struct {
		Username string `json:"username"`
	}
	resp = getJSON(t, c, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "player_one", me.Username)

	var stats struct {
		RoundsPlayed int `json:"roundsPlayed"`
		Reveals      int `json:"reveals"`
	}
	resp = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, stats.RoundsPlayed)

	// Duplicate usernames conflict.
	resp = postJSON(t, c, ts.URL+"/auth/signup", map[string]any{"username": "player_one", "password": "another-pass"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Logout clears the session.
	resp = postJSON(t, c, ts.URL+"/auth/logout", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDailyFlow(t *testing.T) {
	ts, _, c := newTestServer(t)

	var created struct {
		GameID string `json:"gameId"`
		Date   string `json:"date"`
		Played bool   `json:"played"`
	}
	resp := postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, created.Played)
	require.NotEmpty(t, created.GameID)

	// Same player, same day → same session.
	var again struct {
		GameID string `json:"gameId"`
	}
	postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &again)
	require.Equal(t, created.GameID, again.GameID)

	var guessed struct {
		State  string `json:"state"`
		Trials int    `json:"trials"`
	}
	resp = postJSON(t, c, ts.URL+"/daily/guess", map[string]any{"gameId": created.GameID, "guess": "BRYG"}, &guessed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, guessed.Trials)
	require.Contains(t, []string{"in_progress", "revealed"}, guessed.State)

	var lb struct {
		Date string `json:"date"`
		Top  []struct {
			UserID string `json:"userId"`
			Score  int    `json:"score"`
		} `json:"top"`
	}
	resp = getJSON(t, c, ts.URL+"/daily/leaderboard", &lb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.Date, lb.Date)

	// A guess against a mismatched session ID is rejected.
	resp = postJSON(t, c, ts.URL+"/daily/guess", map[string]any{"gameId": "not-" + created.GameID, "guess": "BRYG"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDailyGuess_ConcurrentGuessesSerialize(t *testing.T) {
	ts, _, c := newTestServer(t)

	var created struct {
		GameID string `json:"gameId"`
	}
	resp := postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, created.GameID)

	// More guesses than a round can hold: the overflow must see "locked",
	// never a trial past the cap, even when the requests land together.
	const n = 30
	type result struct {
		State  string `json:"state"`
		Trials int    `json:"trials"`
	}
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := json.Marshal(map[string]any{"gameId": created.GameID, "guess": "BBBB"})
			if err != nil {
				return
			}
			resp, err := c.Post(ts.URL+"/daily/guess", "application/json", bytes.NewReader(body))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			var r result
			if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
				return
			}
			results <- r
		}()
	}
	wg.Wait()
	close(results)

	played, maxTrials := 0, 0
	for r := range results {
		if r.State != "locked" {
			played++
		}
		if r.Trials > maxTrials {
			maxTrials = r.Trials
		}
	}
	require.LessOrEqual(t, maxTrials, game.MaxTrials)
	require.Equal(t, maxTrials, played, "each accepted guess records exactly one trial")
}
