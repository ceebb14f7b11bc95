// Package events fans ledger change events out to change feed subscribers.
package events

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/sticky-chain/models"
)

// messageBuffer bounds how far a slow websocket writer may fall behind
// before events for it are dropped.
const messageBuffer = 100

// Events maps subscriber ids to their channels.
type Events struct {
	m  map[string]chan models.NoteEvent
	mu sync.RWMutex
}

func New() *Events {
	return &Events{
		m: make(map[string]chan models.NoteEvent),
	}
}

// Shutdown closes and removes every channel handed out by Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire returns the channel registered for id, creating it if needed.
func (evt *Events) Acquire(id string) <-chan models.NoteEvent {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.m[id]; exists {
		return ch
	}

	ch := make(chan models.NoteEvent, messageBuffer)
	evt.m[id] = ch
	return ch
}

// Release closes and removes the channel registered for id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Send delivers e to every subscriber without blocking. A subscriber whose
// buffer is full misses the event.
func (evt *Events) Send(e models.NoteEvent) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of registered channels.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()
	return len(evt.m)
}
