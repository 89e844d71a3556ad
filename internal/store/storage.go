package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

// OpenParams describes which store file to open.
type OpenParams struct {
	Path     string
	Name     string
	IsGlobal bool

	// Create makes the file and applies migrations when it does not exist.
	// Without it a missing file yields ErrStoreNotFound.
	Create bool
}

type sqliteDataStore struct {
	db         *DB
	name       string
	isGlobal   bool
	syncStates SyncStateRepository
	records    RecordRepository
}

// OpenDataStore opens (and, with Create, initialises) a store file and
// applies pending migrations.
func OpenDataStore(ctx context.Context, params OpenParams, log *logger.Logger) (DataStore, error) {
	db, err := NewConnectSQLite(ctx, params.Path, params.Create, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		log.Err(err).Str("func", "OpenDataStore").Str("path", params.Path).Msg("migration failed")
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Info().
		Str("store_name", params.Name).
		Bool("is_global", params.IsGlobal).
		Str("path", params.Path).
		Msg("store opened")

	return &sqliteDataStore{
		db:         db,
		name:       params.Name,
		isGlobal:   params.IsGlobal,
		syncStates: NewSyncStateRepository(db),
		records:    NewRecordRepository(db),
	}, nil
}

// Name implements DataStore.
func (s *sqliteDataStore) Name() string {
	return s.name
}

// IsGlobal implements DataStore.
func (s *sqliteDataStore) IsGlobal() bool {
	return s.isGlobal
}

// SyncStates implements DataStore.
func (s *sqliteDataStore) SyncStates() SyncStateRepository {
	return s.syncStates
}

// Records implements DataStore.
func (s *sqliteDataStore) Records() RecordRepository {
	return s.records
}

// Close implements DataStore.
func (s *sqliteDataStore) Close() error {
	return s.db.Close()
}
