package daily

import (
	"context"
	"database/sql"
)

// Result is one finished session counted toward a day's board.
type Result struct {
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	Score       int    `json:"score"`
	WordsSolved int    `json:"wordsSolved"`
	Guesses     int    `json:"guesses"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult keeps one row per user and day: the best score wins.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_results(user_id, date, score, words_solved, guesses)
VALUES(?,?,?,?,?)
ON CONFLICT(user_id, date) DO UPDATE SET
	score=excluded.score, words_solved=excluded.words_solved, guesses=excluded.guesses
WHERE excluded.score > daily_results.score`,
		r.UserID, r.Date, r.Score, r.WordsSolved, r.Guesses,
	)
	return err
}

type LBRow struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Score       int    `json:"score"`
	WordsSolved int    `json:"wordsSolved"`
	Guesses     int    `json:"guesses"`
}

// Leaderboard lists the day's best scores; ties go to fewer guesses, then
// to whoever got there first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, ''), d.score, d.words_solved, d.guesses
FROM daily_results d
LEFT JOIN users u ON u.id = d.user_id
WHERE d.date=?
ORDER BY d.score DESC, d.guesses ASC, d.created_at ASC
LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Score, &r.WordsSolved, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
