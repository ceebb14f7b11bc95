package tui

import (
	"context"

	"github.com/MKhiriev/sticky-chain/models"
)

// Board is the part of the board service the terminal UI drives.
// Screen points are in canvas units, see cellWidth and cellHeight.
type Board interface {
	Compose() error
	SetDraft(content string, color models.Color) error
	ConfirmDraft() error
	Place(screen models.Point) (string, error)
	Cancel() error

	Pan(delta models.Point) error
	Zoom(anchor models.Point, factor float64) error
	Resize(size models.Size) error
	Refresh() error

	MoveNote(id string, screen models.Point) error
	DeleteNote(id string) error

	Snapshot() models.BoardSnapshot
	Subscribe(ctx context.Context) <-chan models.BoardSnapshot
}
