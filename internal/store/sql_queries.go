package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createSyncState = `INSERT INTO sync_states (
			type,
			target,
			options,
			soup_name,
			status,
			progress,
			total_size,
			max_time_stamp,
			error,
			start_time,
			end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getSyncState = `SELECT id, type, target, options, soup_name, status, progress,
			total_size, max_time_stamp, error, start_time, end_time
		FROM sync_states
		WHERE id = ?;`

	updateSyncState = `UPDATE sync_states
		SET type = ?,
			target = ?,
			options = ?,
			soup_name = ?,
			status = ?,
			progress = ?,
			total_size = ?,
			max_time_stamp = ?,
			error = ?,
			start_time = ?,
			end_time = ?
		WHERE id = ?;`

	insertRecord = `INSERT INTO soup_records (
			soup_name,
			remote_id,
			fields,
			last_modified,
			locally_created,
			locally_updated,
			locally_deleted,
			sync_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	updateRecord = `UPDATE soup_records
		SET remote_id = ?,
			fields = ?,
			last_modified = ?,
			locally_created = ?,
			locally_updated = ?,
			locally_deleted = ?,
			sync_id = ?
		WHERE soup_name = ? AND entry_id = ?;`

	getRecordByEntryID = `SELECT entry_id, soup_name, remote_id, fields, last_modified,
			locally_created, locally_updated, locally_deleted, sync_id
		FROM soup_records
		WHERE soup_name = ? AND entry_id = ?;`

	getRecordByRemoteID = `SELECT entry_id, soup_name, remote_id, fields, last_modified,
			locally_created, locally_updated, locally_deleted, sync_id
		FROM soup_records
		WHERE soup_name = ? AND remote_id = ?;`

	markRecordSynced = `UPDATE soup_records
		SET remote_id = ?,
			locally_created = 0,
			locally_updated = 0,
			locally_deleted = 0
		WHERE soup_name = ? AND entry_id = ?;`

	deleteRecord = `DELETE FROM soup_records
		WHERE soup_name = ? AND entry_id = ?;`

	countRecords = `SELECT COUNT(*) FROM soup_records WHERE soup_name = ?;`
)

var recordColumns = []string{
	"entry_id",
	"soup_name",
	"remote_id",
	"fields",
	"last_modified",
	"locally_created",
	"locally_updated",
	"locally_deleted",
	"sync_id",
}

// buildSelectDirtyQuery selects every record of the soup with a pending local
// create, update or delete, oldest entry first.
func buildSelectDirtyQuery(soupName string) (string, []any, error) {
	return sq.Select(recordColumns...).
		From("soup_records").
		Where(sq.Eq{"soup_name": soupName}).
		Where(sq.Or{
			sq.Eq{"locally_created": true},
			sq.Eq{"locally_updated": true},
			sq.Eq{"locally_deleted": true},
		}).
		OrderBy("entry_id").
		ToSql()
}

// ghostDeleteBatchSize bounds the entry ids bound into one DELETE, far below
// SQLite's limit on host parameters per statement.
const ghostDeleteBatchSize = 500

// buildSelectSyncedRemoteIDsQuery selects entry and remote ids of the clean
// records that syncID wrote into the soup.
func buildSelectSyncedRemoteIDsQuery(soupName string, syncID int64) (string, []any, error) {
	return sq.Select("entry_id", "remote_id").
		From("soup_records").
		Where(sq.Eq{
			"soup_name":       soupName,
			"sync_id":         syncID,
			"locally_created": false,
			"locally_updated": false,
			"locally_deleted": false,
		}).
		Where(sq.NotEq{"remote_id": nil}).
		OrderBy("entry_id").
		ToSql()
}

// buildDeleteRecordsQuery deletes the soup's records with the given entry ids.
func buildDeleteRecordsQuery(soupName string, entryIDs []int64) (string, []any, error) {
	return sq.Delete("soup_records").
		Where(sq.Eq{"soup_name": soupName}).
		Where(sq.Eq{"entry_id": entryIDs}).
		ToSql()
}
