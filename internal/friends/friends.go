// Package friends stores reciprocal friendships between registered users.
package friends

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	ErrExists      = errors.New("already friends")
	ErrSelf        = errors.New("cannot befriend yourself")
	ErrUnknownUser = errors.New("unknown user")
)

// Friend is one entry of a user's friend list.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	BestScore int    `json:"bestScore"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Add links userID and the user named username in both directions.
func (s *Store) Add(ctx context.Context, userID, username string) (Friend, error) {
	var f Friend
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, best_score FROM users WHERE lower(username)=lower(?)`,
		strings.TrimSpace(username),
	).Scan(&f.ID, &f.Username, &f.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return Friend{}, ErrUnknownUser
	}
	if err != nil {
		return Friend{}, err
	}
	if f.ID == userID {
		return Friend{}, ErrSelf
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Friend{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO friends (user_id, friend_user_id, created_at) VALUES (?,?,?)`,
		userID, f.ID, now)
	if err != nil {
		return Friend{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Friend{}, ErrExists
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO friends (user_id, friend_user_id, created_at) VALUES (?,?,?)`,
		f.ID, userID, now); err != nil {
		return Friend{}, err
	}
	return f, tx.Commit()
}

// List returns userID's friends, best players first.
func (s *Store) List(ctx context.Context, userID string) ([]Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.best_score
FROM friends f JOIN users u ON u.id = f.friend_user_id
WHERE f.user_id=?
ORDER BY u.best_score DESC, u.username ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Friend{}
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ID, &f.Username, &f.BestScore); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
