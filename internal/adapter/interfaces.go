// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the board to the authoritative note ledger.
//
// Three ledgers are supported and selected by [Open]:
//
//   - ledger: the bundled HTTP ledger server, with a websocket change feed
//   - chain: an EVM contract reached through go-ethereum
//   - memory: an in-process demo ledger with latency and failure injection
//
// Transport failures are mapped to the sentinel errors in errors.go so that
// callers can use [errors.Is] without knowing which ledger is behind them.
package adapter

import (
	"context"

	"github.com/MKhiriev/sticky-chain/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// NoteReader returns the full authoritative note list in ledger order.
type NoteReader interface {
	FetchNotes(ctx context.Context) ([]models.NoteRecord, error)
}

// NoteWriter submits a new note. The returned receipt identifies the write
// on the ledger and is later used to correlate the pending note.
type NoteWriter interface {
	SubmitNote(ctx context.Context, draft models.NoteDraft) (models.Receipt, error)
}

// NoteMutator changes existing notes. Not every ledger supports it.
type NoteMutator interface {
	MoveNote(ctx context.Context, id string, to models.Point) error
	DeleteNote(ctx context.Context, id string) error
}

// ChangeNotifier delivers a signal whenever the ledger may have changed.
// Signals carry no data and are coalesced; the channel is closed when the
// feed ends or ctx is cancelled.
type ChangeNotifier interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
