package placement

import (
	"context"

	"github.com/MKhiriev/sticky-chain/models"
)

// NoteWriter submits a new note to the authoritative ledger.
// A returned error is a terminal failure of that write.
type NoteWriter interface {
	SubmitNote(ctx context.Context, draft models.NoteDraft) (models.Receipt, error)
}

// Overlay is the part of the optimistic overlay the workflow drives.
type Overlay interface {
	AddPending(note models.Note) string
	AttachReceipt(tempID string, receipt models.Receipt) error
	Discard(tempID string) bool
}
