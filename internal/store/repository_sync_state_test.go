package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/models"
)

func sampleSyncState() models.SyncState {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.SyncState{
		Type: models.SyncTypeDown,
		Target: models.SyncTarget{
			Type:  "soql",
			Query: "SELECT Id, Name FROM Account",
		},
		Options:      models.SyncOptions{MergeMode: models.MergeModeLeaveIfChanged},
		SoupName:     "accounts",
		Status:       models.SyncStatusNew,
		TotalSize:    -1,
		MaxTimeStamp: -1,
		StartTime:    &start,
	}
}

func TestSyncStateRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSyncStateRepository(newTestDB(t))

	created, err := repo.CreateSyncState(ctx, sampleSyncState())
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := repo.GetSyncState(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.SyncTypeDown, got.Type)
	assert.Equal(t, "SELECT Id, Name FROM Account", got.Target.Query)
	assert.Equal(t, models.MergeModeLeaveIfChanged, got.Options.MergeMode)
	assert.Equal(t, models.SyncStatusNew, got.Status)
	assert.Equal(t, -1, got.TotalSize)
	require.NotNil(t, got.StartTime)
	assert.True(t, created.StartTime.Equal(*got.StartTime))
	assert.Nil(t, got.EndTime)
}

func TestSyncStateRepository_GetMissing(t *testing.T) {
	repo := NewSyncStateRepository(newTestDB(t))

	_, err := repo.GetSyncState(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSyncStateNotFound)
}

func TestSyncStateRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewSyncStateRepository(newTestDB(t))

	created, err := repo.CreateSyncState(ctx, sampleSyncState())
	require.NoError(t, err)

	end := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	created.Status = models.SyncStatusDone
	created.Progress = 100
	created.TotalSize = 12
	created.MaxTimeStamp = 1700000000000
	created.EndTime = &end
	require.NoError(t, repo.UpdateSyncState(ctx, created))

	got, err := repo.GetSyncState(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusDone, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, 12, got.TotalSize)
	assert.Equal(t, int64(1700000000000), got.MaxTimeStamp)
	require.NotNil(t, got.EndTime)
	assert.True(t, end.Equal(*got.EndTime))
}

func TestSyncStateRepository_UpdateMissing(t *testing.T) {
	repo := NewSyncStateRepository(newTestDB(t))

	state := sampleSyncState()
	state.ID = 99
	err := repo.UpdateSyncState(context.Background(), state)
	assert.ErrorIs(t, err, ErrSyncStateNotSaved)
}

func TestSyncStateRepository_CreateExecError(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewSyncStateRepository(db)

	mock.ExpectExec("INSERT INTO sync_states").WillReturnError(errors.New("disk full"))

	_, err := repo.CreateSyncState(context.Background(), sampleSyncState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create sync state")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStateRepository_GetQueryError(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewSyncStateRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM sync_states").
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection lost"))

	_, err := repo.GetSyncState(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSyncStateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStateRepository_GetCorruptTarget(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewSyncStateRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "type", "target", "options", "soup_name", "status", "progress",
		"total_size", "max_time_stamp", "error", "start_time", "end_time",
	}).AddRow(7, "syncDown", "{not json", "{}", "accounts", "DONE", 100, 1, 0, "", nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM sync_states").WithArgs(int64(7)).WillReturnRows(rows)

	_, err := repo.GetSyncState(context.Background(), 7)
	assert.ErrorIs(t, err, ErrEncodingColumn)
}
