package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/models"
)

type snapshotRepository struct {
	*DB
	logger *logger.Logger
}

func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	return &snapshotRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *snapshotRepository) SaveSnapshot(ctx context.Context, notes []models.Note, savedAt time.Time) error {
	log := logger.FromContext(ctx)

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+snapshotNotesTable); err != nil {
		log.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Msg("failed to clear snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if len(notes) > 0 {
		query, args, err := buildInsertSnapshotQuery(s.builder(), notes)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "snapshotRepository.SaveSnapshot").
				Int("notes", len(notes)).
				Msg("failed to insert snapshot notes")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	query, args, err := buildUpsertSnapshotMetaQuery(s.builder(), savedAt)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (s *snapshotRepository) LoadSnapshot(ctx context.Context) ([]models.Note, time.Time, error) {
	var savedAt time.Time
	err := s.QueryRowContext(ctx, "SELECT saved_at FROM "+snapshotMetaTable+" WHERE id = 1").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildSelectSnapshotQuery(s.builder())
	if err != nil {
		return nil, time.Time{}, err
	}
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var (
			n              models.Note
			position       int
			color, receipt string
		)
		if err = rows.Scan(&position, &n.ID, &n.Content, &n.Position.X, &n.Position.Y, &color, &n.Author, &n.Timestamp, &receipt); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		n.Color, _ = models.ParseColor(color)
		n.Receipt = models.Receipt(receipt)
		n.Origin = models.OriginConfirmed
		notes = append(notes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return notes, savedAt, nil
}
