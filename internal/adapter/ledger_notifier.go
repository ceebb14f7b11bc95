package adapter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MKhiriev/sticky-chain/models"
	"github.com/gorilla/websocket"
)

// Subscribe implements [ChangeNotifier] by reading the websocket feed at
// /api/notes/events. Every well formed event becomes one coalesced signal.
func (l *LedgerAdapter) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	// http -> ws, https -> wss
	wsURL := "ws" + strings.TrimPrefix(l.baseURL, "http") + eventsPath

	conn, _, err := l.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, transportError("subscribe", err)
	}

	signals := make(chan struct{}, 1)
	go l.readEvents(ctx, conn, signals)
	return signals, nil
}

func (l *LedgerAdapter) readEvents(ctx context.Context, conn *websocket.Conn, signals chan<- struct{}) {
	defer close(signals)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Warn().
					Err(err).
					Str("func", "LedgerAdapter.readEvents").
					Msg("change feed closed")
			}
			return
		}

		var ev models.NoteEvent
		if err = json.Unmarshal(msg, &ev); err != nil || ev.Type == "" {
			l.logger.Debug().
				Str("func", "LedgerAdapter.readEvents").
				Bytes("message", msg).
				Msg("ignoring malformed change event")
			continue
		}

		l.logger.Debug().
			Str("func", "LedgerAdapter.readEvents").
			Str("type", ev.Type).
			Str("note_id", ev.NoteID).
			Msg("change event received")

		select {
		case signals <- struct{}{}:
		default:
		}
	}
}
