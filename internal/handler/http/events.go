package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// noteEvents streams every note change to the client as a JSON text frame
// until either side goes away. Pings keep idle proxies from dropping the
// connection.
func (h *Handler) noteEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		log.Err(err).Str("func", "*Handler.noteEvents").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	ch := h.events.Acquire(id)
	defer func() {
		if err := h.events.Release(id); err != nil {
			log.Err(err).Str("func", "*Handler.noteEvents").Msg("releasing event channel")
		}
	}()
	log.Info().Str("func", "*Handler.noteEvents").Str("subscriber", id).Msg("change feed subscriber joined")

	// the client never sends data; reading detects the close
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-gone:
			log.Info().Str("func", "*Handler.noteEvents").Str("subscriber", id).Msg("change feed subscriber left")
			return

		case ev, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			msg, err := json.Marshal(ev)
			if err != nil {
				log.Err(err).Str("func", "*Handler.noteEvents").Msg("encoding event")
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
