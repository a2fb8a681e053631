package daily

import (
	"context"
	"database/sql"
)

// Result is one user's finished daily round.
type Result struct {
	UserID  string `json:"userId"`
	Date    string `json:"date"`
	Variant string `json:"variant"`
	Trials  int    `json:"trials"`
	Score   int    `json:"score"`
}

// Store persists daily results and serves the leaderboard.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user has a recorded result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished daily round. The UNIQUE(user_id, date)
// constraint makes repeat inserts a no-op.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, variant, trials, score)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.Variant, r.Trials, r.Score,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID string `json:"userId"`
	Trials int    `json:"trials"`
	Score  int    `json:"score"`
}

// Leaderboard returns the top results for a date, best score first,
// fewest trials breaking ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, trials, score
		 FROM daily_results
		 WHERE date=?
		 ORDER BY score DESC, trials ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Trials, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
