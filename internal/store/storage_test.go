package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

func TestOpenDataStore_MissingWithoutCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global", "missing.db")

	ds, err := OpenDataStore(context.Background(), OpenParams{Path: path, Name: "missing"}, logger.Nop())

	require.ErrorIs(t, err, ErrStoreNotFound)
	assert.Nil(t, ds)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "opening a missing store must not create it")
}

func TestOpenDataStore_CreateAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users", "1", "smartstore.db")

	ds, err := OpenDataStore(ctx, OpenParams{Path: path, Name: "smartstore", Create: true}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "smartstore", ds.Name())
	assert.False(t, ds.IsGlobal())

	created, err := ds.SyncStates().CreateSyncState(ctx, models.SyncState{
		Type:     models.SyncTypeDown,
		SoupName: "accounts",
		Status:   models.SyncStatusNew,
	})
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	reopened, err := OpenDataStore(ctx, OpenParams{Path: path, Name: "smartstore"}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.SyncStates().GetSyncState(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "accounts", got.SoupName)
}

func TestOpenDataStore_GlobalFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global", "shared.db")

	ds, err := OpenDataStore(context.Background(), OpenParams{Path: path, Name: "shared", IsGlobal: true, Create: true}, logger.Nop())
	require.NoError(t, err)
	defer ds.Close()

	assert.True(t, ds.IsGlobal())
	assert.NotNil(t, ds.Records())
	assert.NotNil(t, ds.SyncStates())
}
