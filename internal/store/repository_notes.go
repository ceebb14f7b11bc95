// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/jackc/pgerrcode"
)

// noteRepository is the PostgreSQL-backed implementation of [NoteRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type noteRepository struct {
	*DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by db.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	return &noteRepository{
		DB:     db,
		logger: logger,
	}
}

// ListNotes returns every stored note ordered by its sequence number, which
// doubles as the ledger index.
func (r *noteRepository) ListNotes(ctx context.Context) ([]models.NoteRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListNotesQuery(r.builder())
	if err != nil {
		return nil, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.ListNotes").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.classify(err))
	}
	defer rows.Close()

	records := make([]models.NoteRecord, 0)
	for rows.Next() {
		var rec models.NoteRecord
		if err = rows.Scan(&rec.Index, &rec.ID, &rec.Content, &rec.X, &rec.Y, &rec.Color, &rec.Author, &rec.Receipt, &rec.Timestamp); err != nil {
			log.Err(err).Str("func", "*noteRepository.ListNotes").Msg("error scanning row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.classify(err))
	}

	return records, nil
}

// CreateNote inserts record and fills its Index from the generated sequence.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrNoteAlreadyExists].
//   - Retryable driver errors → wrapped with [ErrUnavailable].
func (r *noteRepository) CreateNote(ctx context.Context, record models.NoteRecord) (models.NoteRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertNoteQuery(r.builder(), record)
	if err != nil {
		return models.NoteRecord{}, err
	}

	if err = r.QueryRowContext(ctx, query, args...).Scan(&record.Index); err != nil {
		log.Err(err).Str("func", "*noteRepository.CreateNote").Str("note_id", record.ID).Msg("error inserting note")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.NoteRecord{}, ErrNoteAlreadyExists
		default:
			return models.NoteRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.classify(err))
		}
	}

	return record, nil
}

// MoveNote updates the position of note id.
func (r *noteRepository) MoveNote(ctx context.Context, id string, to models.Point) error {
	query, args, err := buildMoveNoteQuery(r.builder(), id, to)
	if err != nil {
		return err
	}
	return r.execOne(ctx, "*noteRepository.MoveNote", id, query, args)
}

// DeleteNote removes note id.
func (r *noteRepository) DeleteNote(ctx context.Context, id string) error {
	query, args, err := buildDeleteNoteQuery(r.builder(), id)
	if err != nil {
		return err
	}
	return r.execOne(ctx, "*noteRepository.DeleteNote", id, query, args)
}

// execOne runs a statement that must affect exactly one note.
func (r *noteRepository) execOne(ctx context.Context, fn, id, query string, args []any) error {
	log := logger.FromContext(ctx)

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Str("note_id", id).Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.classify(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return errors.Join(ErrNoteNotFound, fmt.Errorf("id %s", id))
	}
	return nil
}
