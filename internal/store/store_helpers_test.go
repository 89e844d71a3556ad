package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

// newTestDB opens a migrated SQLite file in a temp dir.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	db, err := NewConnectSQLite(ctx, filepath.Join(t.TempDir(), "test.db"), true, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock, conn
}
