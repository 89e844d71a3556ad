// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildSelectDirtyQuery(t *testing.T) {
	query, args, err := buildSelectDirtyQuery("accounts")
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "from soup_records")
	assert.Contains(t, q, "soup_name = ?")
	assert.Contains(t, q, "locally_created = ?")
	assert.Contains(t, q, "locally_updated = ?")
	assert.Contains(t, q, "locally_deleted = ?")
	assert.Contains(t, q, " or ")
	assert.Contains(t, q, "order by entry_id")

	// sqlite placeholders, never postgres ones
	assert.NotContains(t, query, "$1")
	assert.Equal(t, []any{"accounts", true, true, true}, args)

	for _, col := range recordColumns {
		assert.Contains(t, q, col)
	}
}

func Test_buildSelectSyncedRemoteIDsQuery(t *testing.T) {
	query, args, err := buildSelectSyncedRemoteIDsQuery("accounts", 7)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.True(t, strings.HasPrefix(q, "select entry_id, remote_id from soup_records"))
	assert.Contains(t, q, "remote_id is not null")
	assert.Contains(t, q, "sync_id = ?")
	assert.Contains(t, args, int64(7))
	assert.Contains(t, args, "accounts")
	assert.Len(t, args, 5)
}

func Test_buildDeleteRecordsQuery(t *testing.T) {
	query, args, err := buildDeleteRecordsQuery("accounts", []int64{3, 5, 8})
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.True(t, strings.HasPrefix(q, "delete from soup_records"))
	assert.Contains(t, q, "entry_id in (?,?,?)")
	assert.Equal(t, []any{"accounts", int64(3), int64(5), int64(8)}, args)
}
