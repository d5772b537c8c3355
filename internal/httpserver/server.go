// internal/httpserver/server.go
//
// HTTP server wiring for the unscramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/leaderboard".
//   - Game endpoints (optional auth): /game/new, /game/guess, /game/{id}[/save|/resume|/ws].
//   - Auth + profile/stat/friend endpoints (require auth): /auth/*, /stats/me, /friends.
//   - Background sweep of idle sessions.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route sits outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/daily"
	"github.com/robalobadob/unscrambler/internal/friends"
	"github.com/robalobadob/unscrambler/internal/game"
	"github.com/robalobadob/unscrambler/internal/savegame"
	"github.com/robalobadob/unscrambler/internal/store"
	"github.com/robalobadob/unscrambler/internal/words"
)

// Options carries the settings handlers need at request time.
type Options struct {
	Game           game.Config
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	WaitTimeout  time.Duration // bound for GET /game/{id}?wait=1
	TickInterval time.Duration // websocket push period
}

func (o Options) withDefaults() Options {
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.JWTExpiresDays <= 0 {
		o.JWTExpiresDays = 14
	}
	if o.CookieName == "" {
		o.CookieName = "unscramble_token"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = 5 * time.Second
	}
	if o.TickInterval <= 0 {
		o.TickInterval = 100 * time.Millisecond
	}
	return o
}

// Server bundles router, live sessions, word source and persistence.
type Server struct {
	r       *chi.Mux
	opts    Options
	store   store.Store
	db      *sql.DB
	src     words.Source
	saves   savegame.Store
	daily   *daily.Store
	friends *friends.Store
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options, st store.Store, db *sql.DB, src words.Source, saves savegame.Store) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		opts:    opts.withDefaults(),
		store:   st,
		db:      db,
		src:     src,
		saves:   saves,
		daily:   daily.NewStore(db),
		friends: friends.NewStore(db),
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"unscramble-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","/game/{id}/ws","/auth/*","/friends","/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			e, ok := s.src.(*words.Embedded)
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]string{"source": "remote"})
				return
			}
			n, longest := e.Stats()
			_ = json.NewEncoder(w).Encode(map[string]any{"source": "embedded", "words": n, "maxLength": longest})
		})

		// Game endpoints: OPTIONAL AUTH (guests can play)
		s.mountGame(r.With(s.withOptionalAuth()))

		s.mountAuthRoutes(r)
		s.mountSocial(r)
	})

	// Streams run for the whole session, so no request timeout here.
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/ws", s.handleStream)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(map[string]string{"error": "not_found", "path": r.URL.Path})
		http.Error(w, string(b), http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SweepLoop closes sessions idle longer than idle, checking every period, until ctx is done.
func (s *Server) SweepLoop(ctx context.Context, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Sweep(ctx, idle); n > 0 {
				log.Info().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError sends {"error": msg} with msg JSON-escaped.
func writeError(w http.ResponseWriter, status int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(b), status)
}
