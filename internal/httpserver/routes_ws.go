// internal/httpserver/routes_ws.go
//
// Live session stream: GET /game/{id}/ws
//
// Frames (server → client), one JSON object each:
//   {"type":"display","gameId":..,"display":{..}}            every TickInterval
//   {"type":"verdict","verdict":"correct",..}                 after each guess
//   {"type":"ended","display":{..},"result":{..}}             last frame, then close
//
// Messages (client → server): {"guess":"word"}
//
// One goroutine reads guesses; the handler goroutine is the only writer.
// Each step re-reads the session from the store, which keeps it from being
// swept while the stream is open and follows a resume onto the new session.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/game"
)

const writeWait = 5 * time.Second

type streamFrame struct {
	Type    string       `json:"type"`
	Verdict game.Verdict `json:"verdict,omitempty"`
	gameRes
}

type streamMsg struct {
	Guess string `json:"guess"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.opts.ClientOrigin
		},
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	id := sess.ID
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	guesses := make(chan string)
	go func() {
		defer cancel()
		for {
			var msg streamMsg
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Str("gameId", id).Msg("websocket read")
				}
				return
			}
			select {
			case guesses <- normalizeGuess(msg.Guess):
			case <-ctx.Done():
				return
			}
		}
	}()

	send := func(f streamFrame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(f); err != nil {
			log.Debug().Err(err).Str("gameId", id).Msg("websocket write")
			return false
		}
		return true
	}
	closeWith := func(reason string) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
			time.Now().Add(writeWait))
	}

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		var guess *string
		select {
		case <-ctx.Done():
			return
		case g := <-guesses:
			guess = &g
		case <-ticker.C:
		}

		cur, err := s.store.Get(ctx, id)
		if err != nil {
			closeWith("session closed")
			return
		}
		sess = cur
		sess.Observe(s.now())

		frame := streamFrame{Type: "display"}
		if guess != nil {
			frame = streamFrame{Type: "verdict", Verdict: sess.SubmitGuess(*guess)}
		}

		if sess.Ended() {
			// Closed because a resume replaced it; pick up the new one next step.
			if cur, err := s.store.Get(ctx, id); err == nil && cur != sess {
				continue
			}
			s.finish(ctx, sess)
			end := streamFrame{Type: "ended", gameRes: s.gameResponse(sess)}
			if frame.Type == "verdict" {
				frame.gameRes = end.gameRes
				send(frame)
			}
			send(end)
			closeWith("time up")
			return
		}

		frame.gameRes = s.gameResponse(sess)
		if !send(frame) {
			return
		}
	}
}
