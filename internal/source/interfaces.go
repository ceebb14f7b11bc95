package source

import (
	"context"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/scheduler"
	"github.com/MKhiriev/sticky-chain/models"
)

// NoteReader reads the full authoritative note set.
type NoteReader interface {
	FetchNotes(ctx context.Context) ([]models.NoteRecord, error)
}

// Timers schedules callbacks on the event loop.
type Timers interface {
	After(d time.Duration, fn func()) (scheduler.Handle, error)
	Cancel(h scheduler.Handle) bool
	Now() time.Time
}

// Spawn runs blocking work off the event loop.
type Spawn func(fn func())
