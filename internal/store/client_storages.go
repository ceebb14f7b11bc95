package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the service layer.
type ClientStorages struct {
	// SnapshotRepository is nil when the cache is disabled.
	SnapshotRepository SnapshotRepository

	db *DB
}

// NewClientStorages opens the SQLite snapshot cache at cfg.CacheDSN and
// runs its migrations. An empty DSN disables the cache and returns an empty
// [ClientStorages].
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	if cfg.CacheDSN == "" {
		logger.Info().Msg("snapshot cache disabled")
		return &ClientStorages{}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.CacheDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		SnapshotRepository: NewSnapshotRepository(db, logger),
		db:                 db,
	}, nil
}

// Close releases the cache connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
