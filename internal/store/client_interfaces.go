package store

import (
	"context"
	"time"

	"github.com/MKhiriev/sticky-chain/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// SnapshotRepository keeps the last authoritative note set on the client so
// the board can show it before the first fetch completes.
type SnapshotRepository interface {
	// SaveSnapshot replaces the stored set with notes.
	SaveSnapshot(ctx context.Context, notes []models.Note, savedAt time.Time) error
	// LoadSnapshot returns the stored set and when it was saved. An empty
	// cache yields no notes and a zero time.
	LoadSnapshot(ctx context.Context) ([]models.Note, time.Time, error)
}
