package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

type recordRepository struct {
	db *DB
}

// NewRecordRepository creates a RecordRepository over db.
func NewRecordRepository(db *DB) RecordRepository {
	return &recordRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SaveLocal implements RecordRepository. A zero EntryID inserts; anything
// else updates and fails with ErrRecordNotFound when no row matches.
func (r *recordRepository) SaveLocal(ctx context.Context, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	fields := fieldsOrEmpty(record.Fields)
	if record.EntryID == 0 {
		res, err := r.db.ExecContext(ctx, insertRecord,
			record.SoupName,
			nullString(record.RemoteID),
			fields,
			nullTime(record.LastModified),
			record.LocallyCreated,
			record.LocallyUpdated,
			record.LocallyDeleted,
			record.SyncID,
		)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.SaveLocal").
				Str("soup_name", record.SoupName).
				Msg("failed to insert record")
			return models.Record{}, fmt.Errorf("failed to insert record: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return models.Record{}, fmt.Errorf("failed to read record id: %w", err)
		}
		record.EntryID = id
		return record, nil
	}

	res, err := r.db.ExecContext(ctx, updateRecord,
		nullString(record.RemoteID),
		fields,
		nullTime(record.LastModified),
		record.LocallyCreated,
		record.LocallyUpdated,
		record.LocallyDeleted,
		record.SyncID,
		record.SoupName,
		record.EntryID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.SaveLocal").
			Str("soup_name", record.SoupName).
			Int64("entry_id", record.EntryID).
			Msg("failed to update record")
		return models.Record{}, fmt.Errorf("failed to update record: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Record{}, fmt.Errorf("%w: soup=%s entry_id=%d", ErrRecordNotFound, record.SoupName, record.EntryID)
	}

	return record, nil
}

// GetRecord implements RecordRepository.
func (r *recordRepository) GetRecord(ctx context.Context, soupName string, entryID int64) (models.Record, error) {
	record, err := scanRecord(r.db.QueryRowContext(ctx, getRecordByEntryID, soupName, entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, fmt.Errorf("%w: soup=%s entry_id=%d", ErrRecordNotFound, soupName, entryID)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.GetRecord").
			Str("soup_name", soupName).
			Int64("entry_id", entryID).
			Msg("failed to scan record row")
		return models.Record{}, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// UpsertRemote implements RecordRepository. Busy or locked commits are
// retried by the DB.
func (r *recordRepository) UpsertRemote(ctx context.Context, soupName string, syncID int64, records []models.RemoteRecord, mode models.MergeMode) (int, error) {
	var written int
	err := r.db.retry(ctx, func() error {
		var err error
		written, err = r.upsertRemote(ctx, soupName, syncID, records, mode)
		return err
	})
	return written, err
}

// upsertRemote writes one page of remote records in a single transaction.
func (r *recordRepository) upsertRemote(ctx context.Context, soupName string, syncID int64, records []models.RemoteRecord, mode models.MergeMode) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.UpsertRemote").Msg("failed to begin transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	written := 0
	for _, remote := range records {
		existing, err := scanRecord(tx.QueryRowContext(ctx, getRecordByRemoteID, soupName, remote.ID))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, insertRecord,
				soupName,
				remote.ID,
				fieldsOrEmpty(remote.Fields),
				nullTime(&remote.LastModified),
				false, false, false,
				syncID,
			)
		case err != nil:
			// handled below
		case existing.IsDirty() && mode == models.MergeModeLeaveIfChanged:
			log.Debug().
				Str("func", "recordRepository.UpsertRemote").
				Str("remote_id", remote.ID).
				Msg("keeping locally modified record")
			continue
		default:
			_, err = tx.ExecContext(ctx, updateRecord,
				remote.ID,
				fieldsOrEmpty(remote.Fields),
				nullTime(&remote.LastModified),
				false, false, false,
				syncID,
				soupName,
				existing.EntryID,
			)
		}
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.UpsertRemote").
				Str("soup_name", soupName).
				Str("remote_id", remote.ID).
				Msg("failed to upsert remote record")
			return 0, fmt.Errorf("failed to upsert remote record %s: %w", remote.ID, err)
		}
		written++
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "recordRepository.UpsertRemote").Msg("failed to commit transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return written, nil
}

// GetDirty implements RecordRepository.
func (r *recordRepository) GetDirty(ctx context.Context, soupName string) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectDirtyQuery(soupName)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.GetDirty").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetDirty").
			Str("soup_name", soupName).
			Msg("failed to query dirty records")
		return nil, fmt.Errorf("failed to query dirty records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.GetDirty").
				Str("soup_name", soupName).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("failed to scan record row: %w", scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "recordRepository.GetDirty").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating record rows: %w", rowsErr)
	}

	return records, nil
}

// MarkSynced implements RecordRepository.
func (r *recordRepository) MarkSynced(ctx context.Context, soupName string, entryID int64, remoteID string) error {
	res, err := r.db.ExecContext(ctx, markRecordSynced, nullString(remoteID), soupName, entryID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.MarkSynced").
			Str("soup_name", soupName).
			Int64("entry_id", entryID).
			Msg("failed to mark record synced")
		return fmt.Errorf("failed to mark record synced: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: soup=%s entry_id=%d", ErrRecordNotFound, soupName, entryID)
	}
	return nil
}

// DeleteRecord implements RecordRepository.
func (r *recordRepository) DeleteRecord(ctx context.Context, soupName string, entryID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteRecord, soupName, entryID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.DeleteRecord").
			Str("soup_name", soupName).
			Int64("entry_id", entryID).
			Msg("failed to delete record")
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteGhosts removes clean records written by syncID whose remote id is not
// in keepIDs. The ghost set is computed in memory and deleted in batches of
// ghostDeleteBatchSize, so keepIDs may be arbitrarily large.
func (r *recordRepository) DeleteGhosts(ctx context.Context, soupName string, syncID int64, keepIDs []string) (int64, error) {
	synced, err := r.syncedRemoteIDs(ctx, soupName, syncID)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]struct{}, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = struct{}{}
	}

	ghosts := make([]int64, 0)
	for entryID, remoteID := range synced {
		if _, ok := keep[remoteID]; !ok {
			ghosts = append(ghosts, entryID)
		}
	}
	if len(ghosts) == 0 {
		return 0, nil
	}
	slices.Sort(ghosts)

	var deleted int64
	err = r.db.retry(ctx, func() error {
		var err error
		deleted, err = r.deleteEntries(ctx, soupName, ghosts)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.DeleteGhosts").
			Str("soup_name", soupName).
			Int64("sync_id", syncID).
			Int("ghosts", len(ghosts)).
			Msg("failed to delete ghost records")
		return 0, fmt.Errorf("failed to delete ghost records: %w", err)
	}
	return deleted, nil
}

// syncedRemoteIDs maps entry id to remote id for the clean records of syncID.
func (r *recordRepository) syncedRemoteIDs(ctx context.Context, soupName string, syncID int64) (map[int64]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSyncedRemoteIDsQuery(soupName, syncID)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.syncedRemoteIDs").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.syncedRemoteIDs").
			Str("soup_name", soupName).
			Int64("sync_id", syncID).
			Msg("failed to select synced records")
		return nil, fmt.Errorf("failed to select synced records: %w", err)
	}
	defer rows.Close()

	synced := make(map[int64]string)
	for rows.Next() {
		var (
			entryID  int64
			remoteID string
		)
		if err = rows.Scan(&entryID, &remoteID); err != nil {
			log.Err(err).Str("func", "recordRepository.syncedRemoteIDs").Msg("failed to scan synced record")
			return nil, fmt.Errorf("failed to scan synced record: %w", err)
		}
		synced[entryID] = remoteID
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating synced records: %w", err)
	}

	return synced, nil
}

// deleteEntries deletes entryIDs in one transaction, ghostDeleteBatchSize ids
// per statement.
func (r *recordRepository) deleteEntries(ctx context.Context, soupName string, entryIDs []int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var deleted int64
	for chunk := range slices.Chunk(entryIDs, ghostDeleteBatchSize) {
		query, args, err := buildDeleteRecordsQuery(soupName, chunk)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		deleted += n
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return deleted, nil
}

// CountRecords implements RecordRepository.
func (r *recordRepository) CountRecords(ctx context.Context, soupName string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countRecords, soupName).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.CountRecords").
			Str("soup_name", soupName).
			Msg("failed to count records")
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		record       models.Record
		remoteID     sql.NullString
		fields       string
		lastModified sql.NullTime
	)
	err := row.Scan(
		&record.EntryID,
		&record.SoupName,
		&remoteID,
		&fields,
		&lastModified,
		&record.LocallyCreated,
		&record.LocallyUpdated,
		&record.LocallyDeleted,
		&record.SyncID,
	)
	if err != nil {
		return models.Record{}, err
	}

	record.RemoteID = remoteID.String
	record.Fields = json.RawMessage(fields)
	record.LastModified = timePtr(lastModified)
	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fieldsOrEmpty(fields json.RawMessage) string {
	if len(fields) == 0 {
		return "{}"
	}
	return string(fields)
}
