package daily

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/unscrambler/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return conn
}

func addUser(t *testing.T, conn *sql.DB, id, name string) {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, name, "x", time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
}

func TestStore_KeepsBestScorePerDay(t *testing.T) {
	conn := openTestDB(t)
	addUser(t, conn, "u1", "alice")
	st := NewStore(conn)
	ctx := context.Background()

	for _, score := range []int{30, 50, 20} {
		if err := st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-01-02", Score: score, WordsSolved: score / 10, Guesses: 9}); err != nil {
			t.Fatalf("InsertResult(%d): %v", score, err)
		}
	}

	rows, err := st.Leaderboard(ctx, "2026-01-02", 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Score != 50 || rows[0].WordsSolved != 5 {
		t.Errorf("row = %+v, want best score 50", rows[0])
	}
	if rows[0].Username != "alice" {
		t.Errorf("Username = %q, want %q", rows[0].Username, "alice")
	}

	played, err := st.AlreadyPlayed(ctx, "u1", "2026-01-02")
	if err != nil || !played {
		t.Errorf("AlreadyPlayed = %v, %v; want true", played, err)
	}
	played, _ = st.AlreadyPlayed(ctx, "u1", "2026-01-03")
	if played {
		t.Error("AlreadyPlayed on another day = true")
	}
}

func TestStore_LeaderboardOrder(t *testing.T) {
	conn := openTestDB(t)
	addUser(t, conn, "u1", "alice")
	addUser(t, conn, "u2", "bob")
	addUser(t, conn, "u3", "carol")
	st := NewStore(conn)
	ctx := context.Background()

	results := []Result{
		{UserID: "u1", Date: "2026-01-02", Score: 40, Guesses: 8},
		{UserID: "u2", Date: "2026-01-02", Score: 40, Guesses: 5},
		{UserID: "u3", Date: "2026-01-02", Score: 70, Guesses: 12},
		{UserID: "u1", Date: "2026-01-01", Score: 99, Guesses: 1},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}

	rows, err := st.Leaderboard(ctx, "2026-01-02", 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	var got []string
	for _, r := range rows {
		got = append(got, r.Username)
	}
	want := []string{"carol", "bob", "alice"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}

	empty, err := st.Leaderboard(ctx, "1999-01-01", 5)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty day = %#v, want empty non-nil slice", empty)
	}
}

func TestParseKey(t *testing.T) {
	now := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2026-03-04", false},
		{"2025-12-31", "2025-12-31", false},
		{"31/12/2025", "", true},
		{"2025-13-01", "", true},
	}
	for _, tc := range tests {
		got, err := ParseKey(tc.in, now)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseKey(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
