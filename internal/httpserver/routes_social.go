// internal/httpserver/routes_social.go
//
// Friends and the daily leaderboard.
//   - POST /friends      {username} → befriend (both directions); 409 if already friends
//   - GET  /friends                 → friends with their best scores
//   - GET  /leaderboard  ?date=YYYY-MM-DD&limit=N → top scores for a day (default today, 20)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/daily"
	"github.com/robalobadob/unscrambler/internal/friends"
)

func (s *Server) mountSocial(r chi.Router) {
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Route("/friends", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Post("/", s.handleAddFriend)
		r.Get("/", s.handleListFriends)
	})
}

type addFriendReq struct {
	Username string `json:"username"`
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req addFriendReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	me := userFrom(r)
	f, err := s.friends.Add(r.Context(), me.ID, req.Username)
	switch {
	case errors.Is(err, friends.ErrExists):
		http.Error(w, `{"error":"already_friends"}`, http.StatusConflict)
		return
	case errors.Is(err, friends.ErrSelf):
		http.Error(w, `{"error":"self"}`, http.StatusBadRequest)
		return
	case errors.Is(err, friends.ErrUnknownUser):
		http.Error(w, `{"error":"user_not_found"}`, http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("user", me.ID).Msg("add friend")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(f)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	list, err := s.friends.List(r.Context(), userFrom(r).ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date, err := daily.ParseKey(r.URL.Query().Get("date"), s.now())
	if err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, limit)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
}
