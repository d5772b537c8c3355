// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new          → start a session owned by the caller
//   - GET  /game/{id}         → advance the clock and return the display (?wait=1 long-polls)
//   - POST /game/guess        → submit a guess
//   - POST /game/{id}/save    → write the caller's save slot
//   - POST /game/{id}/resume  → replace the session with the caller's save slot
//
// Every request observes wall-clock time on the session before acting.
// Finished sessions are written to games/users/daily_results exactly once.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/daily"
	"github.com/robalobadob/unscrambler/internal/game"
	"github.com/robalobadob/unscrambler/internal/savegame"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
	r.Post("/game/{id}/save", s.handleSave)
	r.Post("/game/{id}/resume", s.handleResume)
}

type gameRes struct {
	GameID  string            `json:"gameId"`
	Display game.DisplayState `json:"display"`
	Result  *game.Result      `json:"result,omitempty"` // set once the clock has run out
}

func (s *Server) gameResponse(sess *game.Session) gameRes {
	res := gameRes{GameID: sess.ID, Display: sess.Display()}
	if res.Display.State == game.StateEnded {
		r := sess.Result()
		res.Result = &r
	}
	return res
}

// handleNewGame creates a session and a games row for its owner.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess := game.NewSession(uuid.NewString(), s.src, s.opts.Game)
	sess.Owner = s.identity(w, r)
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Close()
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	now := s.now().UTC().Format(time.RFC3339)
	var err error
	if me := userFrom(r); me != nil {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, started_at, status) VALUES (?,?,?,?)`,
			sess.ID, me.ID, now, "playing")
	} else {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, started_at, status) VALUES (?,?,?,?)`,
			sess.ID, sess.Owner, now, "playing")
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}

	log.Info().Str("gameId", sess.ID).Msg("session started")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s.gameResponse(sess))
}

// sessionFor loads a session the caller owns, answering 404 otherwise.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), id)
	if err != nil || !owns(r, sess.Owner) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	sess.Observe(s.now())
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if r.URL.Query().Get("wait") == "1" {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.WaitTimeout)
		_ = sess.Wait(ctx)
		cancel()
		sess.Observe(s.now())
	}
	s.finish(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(s.gameResponse(sess))
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Verdict game.Verdict `json:"verdict"`
	gameRes
}

// normalizeGuess is the only place input case is folded; the engine matches exactly.
func normalizeGuess(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessionFor(w, r, req.GameID)
	if !ok {
		return
	}
	v := sess.SubmitGuess(normalizeGuess(req.Guess))
	s.finish(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(guessRes{Verdict: v, gameRes: s.gameResponse(sess)})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if sess.Ended() {
		s.finish(r.Context(), sess)
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}
	snap := sess.Snapshot()
	if err := s.saves.Save(r.Context(), s.identity(w, r), snap); err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("save snapshot")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("gameId", sess.ID).Uint("score", snap.Score).Msg("game saved")
	_ = json.NewEncoder(w).Encode(snap)
}

// handleResume swaps the session for one rebuilt from the caller's save slot.
// The id stays the same so the games row and any open client keep working.
// A game that has already ended cannot be resumed.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	old, ok := s.sessionFor(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if old.Ended() {
		s.finish(r.Context(), old)
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}
	snap, err := s.saves.Load(r.Context(), s.identity(w, r))
	if errors.Is(err, savegame.ErrNoSave) {
		http.Error(w, `{"error":"no_save"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", old.ID).Msg("load snapshot")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return
	}

	sess := game.Restore(old.ID, s.src, s.opts.Game, snap)
	sess.Owner = old.Owner
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Close()
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("gameId", sess.ID).Uint("score", snap.Score).Msg("game resumed")
	s.finish(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(s.gameResponse(sess))
}

// finish records an ended session once: games row, user stats and the
// owner's daily board entry. Failures are logged, never surfaced.
func (s *Server) finish(ctx context.Context, sess *game.Session) {
	if !sess.MarkRecorded() {
		return
	}
	res := sess.Result()
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("record game")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET status='finished', finished_at=?, score=?, words_solved=?, guesses=? WHERE id=?`,
		now.UTC().Format(time.RFC3339), res.Score, res.WordsSolved, res.Guesses, sess.ID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("finish game")
	}

	var userID string
	_ = tx.QueryRowContext(ctx, `SELECT COALESCE(user_id,'') FROM games WHERE id=?`, sess.ID).Scan(&userID)
	if userID != "" {
		if err := bumpStats(ctx, tx, userID, res.Score); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("commit game")
		return
	}

	if userID != "" {
		if err := s.daily.InsertResult(ctx, daily.Result{
			UserID:      userID,
			Date:        daily.DateKey(now),
			Score:       int(res.Score),
			WordsSolved: res.WordsSolved,
			Guesses:     res.Guesses,
		}); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("daily result")
		}
	}
	log.Info().Str("gameId", sess.ID).Uint("score", res.Score).Int("solved", res.WordsSolved).Msg("session finished")
}
