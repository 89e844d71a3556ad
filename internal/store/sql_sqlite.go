package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// NewConnectSQLite opens the SQLite file at path. When create is false and
// the file does not exist, ErrStoreNotFound is returned.
func NewConnectSQLite(ctx context.Context, path string, create bool, log *logger.Logger) (*DB, error) {
	if err := prepareDBFile(path, create); err != nil {
		if !errors.Is(err, ErrStoreNotFound) {
			log.Err(err).Str("func", "NewConnectSQLite").Str("path", path).Msg("error preparing database file")
		}
		return nil, err
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("path", path).Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "NewConnectSQLite").Str("path", path).Msg("error connecting database (ping)")
		return nil, fmt.Errorf("error pinging DB: %w", err)
	}

	// sqlite has a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err = conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			log.Err(err).Str("func", "NewConnectSQLite").Str("pragma", pragma).Msg("error applying pragma")
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("path", path).Msg("connected to database successfully")

	return &DB{
		DB:         conn,
		classifier: NewSQLiteErrorClassifier(),
		logger:     log,
	}, nil
}

// prepareDBFile makes sure the database file exists. Without create a
// missing file is ErrStoreNotFound.
func prepareDBFile(path string, create bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("error checking DB file: %w", err)
	case !create:
		return fmt.Errorf("%w: %s", ErrStoreNotFound, path)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating DB dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating DB file: %w", err)
	}
	return f.Close()
}
