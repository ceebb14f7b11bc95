// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the business logic of the ledger server and the
// board client.
//
// Server side, [NoteService] stores notes, stamps them with a receipt and
// publishes change events. Client side, [Board] owns the event loop that
// drives the remote source, the optimistic overlay and the placement
// workflow, and [NotificationJob] feeds ledger change signals into it.
package service

import (
	"context"

	"github.com/MKhiriev/sticky-chain/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// NoteService is the ledger server's note store.
type NoteService interface {
	ListNotes(ctx context.Context) ([]models.NoteRecord, error)
	CreateNote(ctx context.Context, draft models.NoteDraft) (models.CreateNoteResponse, error)
	MoveNote(ctx context.Context, id string, req models.MoveNoteRequest) error
	DeleteNote(ctx context.Context, id string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// NoteServiceWrapper defines middleware composition for NoteService.
// Implementations wrap an existing NoteService to add behavior such as
// validation.
type NoteServiceWrapper interface {
	Wrap(NoteService) NoteService
}

// EventPublisher receives a change event after every successful write.
type EventPublisher interface {
	Send(e models.NoteEvent)
}
