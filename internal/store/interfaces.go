package store

import (
	"context"

	"github.com/MKhiriev/sticky-chain/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// NoteRepository is the ledger server's authoritative note table.
type NoteRepository interface {
	// ListNotes returns every note in creation order.
	ListNotes(ctx context.Context) ([]models.NoteRecord, error)
	// CreateNote stores record and returns it with its ledger index.
	CreateNote(ctx context.Context, record models.NoteRecord) (models.NoteRecord, error)
	MoveNote(ctx context.Context, id string, to models.Point) error
	DeleteNote(ctx context.Context, id string) error
}
