package store

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DataStore is one local store: a named SQLite file holding sync states and
// soup records, either in the global namespace or in the current user's.
type DataStore interface {
	Name() string
	IsGlobal() bool
	SyncStates() SyncStateRepository
	Records() RecordRepository
	Close() error
}

// SyncStateRepository persists sync definitions and their progress.
type SyncStateRepository interface {
	CreateSyncState(ctx context.Context, state models.SyncState) (models.SyncState, error)
	GetSyncState(ctx context.Context, id int64) (models.SyncState, error)
	UpdateSyncState(ctx context.Context, state models.SyncState) error
}

// RecordRepository persists soup records.
type RecordRepository interface {
	// SaveLocal inserts a record when EntryID is zero and updates it otherwise.
	// Local flags are stored as given.
	SaveLocal(ctx context.Context, record models.Record) (models.Record, error)
	GetRecord(ctx context.Context, soupName string, entryID int64) (models.Record, error)
	// UpsertRemote writes remote records into a soup and returns how many were
	// written. With MergeModeLeaveIfChanged, dirty local records are kept.
	UpsertRemote(ctx context.Context, soupName string, syncID int64, records []models.RemoteRecord, mode models.MergeMode) (int, error)
	GetDirty(ctx context.Context, soupName string) ([]models.Record, error)
	MarkSynced(ctx context.Context, soupName string, entryID int64, remoteID string) error
	DeleteRecord(ctx context.Context, soupName string, entryID int64) error
	// DeleteGhosts removes clean records written by syncID whose remote id is
	// not in keepIDs, and returns how many were removed.
	DeleteGhosts(ctx context.Context, soupName string, syncID int64, keepIDs []string) (int64, error)
	CountRecords(ctx context.Context, soupName string) (int, error)
}
