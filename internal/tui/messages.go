package tui

import "github.com/MKhiriev/sticky-chain/models"

type snapshotMsg models.BoardSnapshot

// opDoneMsg reports a board call that only returns an error.
type opDoneMsg struct {
	op  string
	err error
}

type placedMsg struct {
	tempID string
	err    error
}

type draftConfirmedMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
