package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

type syncStateRepository struct {
	db *DB
}

// NewSyncStateRepository creates a SyncStateRepository over db.
func NewSyncStateRepository(db *DB) SyncStateRepository {
	return &syncStateRepository{db: db}
}

// CreateSyncState implements SyncStateRepository. The returned state carries
// the assigned id.
func (r *syncStateRepository) CreateSyncState(ctx context.Context, state models.SyncState) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	target, options, err := encodeSyncStateColumns(state)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.CreateSyncState").Msg("failed to encode sync state")
		return models.SyncState{}, err
	}

	res, err := r.db.ExecContext(ctx, createSyncState,
		state.Type,
		target,
		options,
		state.SoupName,
		state.Status,
		state.Progress,
		state.TotalSize,
		state.MaxTimeStamp,
		state.Error,
		nullTime(state.StartTime),
		nullTime(state.EndTime),
	)
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.CreateSyncState").
			Str("soup_name", state.SoupName).
			Msg("failed to insert sync state")
		return models.SyncState{}, fmt.Errorf("failed to create sync state: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.CreateSyncState").Msg("failed to read inserted sync state id")
		return models.SyncState{}, fmt.Errorf("failed to read sync state id: %w", err)
	}

	state.ID = id
	return state, nil
}

// GetSyncState implements SyncStateRepository. A missing id yields
// ErrSyncStateNotFound.
func (r *syncStateRepository) GetSyncState(ctx context.Context, id int64) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	var (
		state      models.SyncState
		target     string
		options    string
		start, end sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, getSyncState, id).Scan(
		&state.ID,
		&state.Type,
		&target,
		&options,
		&state.SoupName,
		&state.Status,
		&state.Progress,
		&state.TotalSize,
		&state.MaxTimeStamp,
		&state.Error,
		&start,
		&end,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncState{}, fmt.Errorf("%w: id=%d", ErrSyncStateNotFound, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.GetSyncState").
			Int64("sync_id", id).
			Msg("failed to scan sync state row")
		return models.SyncState{}, fmt.Errorf("failed to get sync state: %w", err)
	}

	if err = json.Unmarshal([]byte(target), &state.Target); err != nil {
		return models.SyncState{}, fmt.Errorf("%w: target: %v", ErrEncodingColumn, err)
	}
	if err = json.Unmarshal([]byte(options), &state.Options); err != nil {
		return models.SyncState{}, fmt.Errorf("%w: options: %v", ErrEncodingColumn, err)
	}
	state.StartTime = timePtr(start)
	state.EndTime = timePtr(end)

	return state, nil
}

// UpdateSyncState implements SyncStateRepository.
func (r *syncStateRepository) UpdateSyncState(ctx context.Context, state models.SyncState) error {
	log := logger.FromContext(ctx)

	target, options, err := encodeSyncStateColumns(state)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.UpdateSyncState").Msg("failed to encode sync state")
		return err
	}

	res, err := r.db.ExecContext(ctx, updateSyncState,
		state.Type,
		target,
		options,
		state.SoupName,
		state.Status,
		state.Progress,
		state.TotalSize,
		state.MaxTimeStamp,
		state.Error,
		nullTime(state.StartTime),
		nullTime(state.EndTime),
		state.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.UpdateSyncState").
			Int64("sync_id", state.ID).
			Msg("failed to update sync state")
		return fmt.Errorf("failed to update sync state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%d", ErrSyncStateNotSaved, state.ID)
	}

	return nil
}

func encodeSyncStateColumns(state models.SyncState) (string, string, error) {
	target, err := json.Marshal(state.Target)
	if err != nil {
		return "", "", fmt.Errorf("%w: target: %v", ErrEncodingColumn, err)
	}
	options, err := json.Marshal(state.Options)
	if err != nil {
		return "", "", fmt.Errorf("%w: options: %v", ErrEncodingColumn, err)
	}
	return string(target), string(options), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
