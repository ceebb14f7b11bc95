package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/migrations"
)

// NewConnectSQLite opens the client snapshot cache, creating the file and
// its directory when missing. ":memory:" and "file:" DSNs are passed through.
func NewConnectSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if err := ensureCacheFile(dsn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error preparing cache file")
		return nil, fmt.Errorf("prepare cache file: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error opening cache")
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// one writer, and an in-memory cache must stay on a single connection
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("cache ping failed")
		_ = conn.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", dsn).Msg("snapshot cache opened")

	return &DB{DB: conn, dialect: migrations.SQLite, logger: log}, nil
}

func ensureCacheFile(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if _, err := os.Stat(dsn); !os.IsNotExist(err) {
		return err
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	f, err := os.Create(dsn)
	if err != nil {
		return err
	}
	return f.Close()
}
