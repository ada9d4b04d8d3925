package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/store"
)

const liveWriteTimeout = 10 * time.Second

// Live streams store snapshots to browsers over a WebSocket.
type Live struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewLive(st *store.Store, logger zerolog.Logger) *Live {
	return &Live{store: st, logger: logger.With().Str("component", "live").Logger()}
}

type liveMessage struct {
	Type  string      `json:"type"`
	State store.State `json:"state"`
}

// Stream sends the current state on connect and after every change. Slow
// clients skip intermediate versions.
//
//	@Summary      Live state stream
//	@Description  WebSocket. Pass the access token as the token query parameter.
//	@Tags         Live
//	@Param        token  query  string  true  "Access token"
//	@Success      101
//	@Router       /api/v1/live [get]
func (h *Live) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()

	// Client messages are ignored; the read side only detects close.
	ctx := conn.CloseRead(r.Context())

	updates, cancel := h.store.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := h.write(ctx, conn, st); err != nil {
				h.logger.Debug().Err(err).Msg("live client write failed")
				return
			}
		}
	}
}

func (h *Live) write(ctx context.Context, conn *websocket.Conn, st store.State) error {
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, liveMessage{Type: "state", State: st})
}
