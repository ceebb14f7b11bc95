package models

import "time"

// CreateNoteResponse is returned by the ledger server for an accepted note.
type CreateNoteResponse struct {
	ID        string    `json:"id"`
	Receipt   Receipt   `json:"receipt"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveNoteRequest relocates an existing note.
type MoveNoteRequest struct {
	X float64 `json:"x" validate:"finite"`
	Y float64 `json:"y" validate:"finite"`
}

// NoteEvent is pushed over the change feed whenever the ledger changes.
type NoteEvent struct {
	Type   string `json:"type"`
	NoteID string `json:"note_id"`
}

const (
	EventNoteCreated = "note.created"
	EventNoteMoved   = "note.moved"
	EventNoteDeleted = "note.deleted"
)
