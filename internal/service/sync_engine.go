package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/MKhiriev/go-sync-bridge/internal/adapter"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/store"
	"github.com/MKhiriev/go-sync-bridge/models"
)

const (
	defaultIDFieldName               = "Id"
	defaultModificationDateFieldName = "LastModifiedDate"
)

var fromClause = regexp.MustCompile(`(?i)\bfrom\s+([A-Za-z0-9_]+)`)

type syncEngine struct {
	store  store.DataStore
	remote adapter.RemoteAdapter

	now func() time.Time
}

// NewSyncEngine returns a SyncEngine bound to one local store.
func NewSyncEngine(ds store.DataStore, remote adapter.RemoteAdapter) SyncEngine {
	return &syncEngine{
		store:  ds,
		remote: remote,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Push implements SyncEngine.
func (e *syncEngine) Push(ctx context.Context, target models.SyncTarget, options models.SyncOptions, soupName string, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	state, err := e.createSync(ctx, models.SyncTypeUp, target, options, soupName)
	if err != nil {
		return models.SyncState{}, err
	}

	return e.runPush(ctx, state, onUpdate)
}

// Pull implements SyncEngine.
func (e *syncEngine) Pull(ctx context.Context, target models.SyncTarget, options models.SyncOptions, soupName string, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	if options.MergeMode == "" {
		options.MergeMode = models.MergeModeOverwrite
	}

	state, err := e.createSync(ctx, models.SyncTypeDown, target, options, soupName)
	if err != nil {
		return models.SyncState{}, err
	}

	return e.runPull(ctx, state, onUpdate)
}

// Status implements SyncEngine.
func (e *syncEngine) Status(ctx context.Context, id int64) (models.SyncState, error) {
	return e.getSync(ctx, id)
}

// Resync implements SyncEngine. It reruns a sync that is not running, with its
// stored target and options.
func (e *syncEngine) Resync(ctx context.Context, id int64, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	state, err := e.getSync(ctx, id)
	if err != nil {
		return models.SyncState{}, err
	}

	if state.IsRunning() {
		return models.SyncState{}, fmt.Errorf("%w: sync %d is already running", ErrInvalidSyncState, id)
	}

	switch state.Type {
	case models.SyncTypeUp:
		return e.runPush(ctx, state, onUpdate)
	case models.SyncTypeDown:
		return e.runPull(ctx, state, onUpdate)
	default:
		return models.SyncState{}, fmt.Errorf("%w: unknown sync type %q", ErrInvalidSyncState, state.Type)
	}
}

// PurgeGhosts implements SyncEngine. Only a pull that finished DONE can be
// purged; local records the remote no longer lists are deleted.
func (e *syncEngine) PurgeGhosts(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	state, err := e.getSync(ctx, id)
	if err != nil {
		return err
	}

	if state.Type != models.SyncTypeDown {
		return fmt.Errorf("%w: sync %d is not a pull", ErrInvalidSyncState, id)
	}
	if !state.IsDone() {
		return fmt.Errorf("%w: sync %d is %s", ErrInvalidSyncState, id, state.Status)
	}

	ids, err := e.remote.ListIDs(ctx, state.Target)
	if err != nil {
		log.Err(err).Str("func", "syncEngine.PurgeGhosts").Int64("sync_id", id).Msg("failed to list remote ids")
		return fmt.Errorf("list remote ids: %w", err)
	}

	deleted, err := e.store.Records().DeleteGhosts(ctx, state.SoupName, id, ids)
	if err != nil {
		return fmt.Errorf("delete ghosts: %w", err)
	}

	log.Info().
		Int64("sync_id", id).
		Str("soup_name", state.SoupName).
		Int64("deleted", deleted).
		Msg("ghost records purged")

	return nil
}

func (e *syncEngine) createSync(ctx context.Context, syncType models.SyncType, target models.SyncTarget, options models.SyncOptions, soupName string) (models.SyncState, error) {
	if soupName == "" {
		return models.SyncState{}, ErrNoSoupName
	}

	target, err := normalizeTarget(target)
	if err != nil {
		return models.SyncState{}, err
	}

	return e.store.SyncStates().CreateSyncState(ctx, models.SyncState{
		Type:         syncType,
		Target:       target,
		Options:      options,
		SoupName:     soupName,
		Status:       models.SyncStatusNew,
		TotalSize:    -1,
		MaxTimeStamp: -1,
	})
}

func (e *syncEngine) getSync(ctx context.Context, id int64) (models.SyncState, error) {
	state, err := e.store.SyncStates().GetSyncState(ctx, id)
	if errors.Is(err, store.ErrSyncStateNotFound) {
		return models.SyncState{}, fmt.Errorf("%w: id=%d", ErrSyncNotFound, id)
	}
	if err != nil {
		return models.SyncState{}, fmt.Errorf("get sync %d: %w", id, err)
	}
	return state, nil
}

// publish persists state and then hands it to onUpdate.
func (e *syncEngine) publish(ctx context.Context, state models.SyncState, onUpdate models.SyncUpdateFunc) error {
	if err := e.store.SyncStates().UpdateSyncState(ctx, state); err != nil {
		return fmt.Errorf("persist sync state: %w", err)
	}
	if onUpdate != nil {
		onUpdate(state)
	}
	return nil
}

// start marks state RUNNING with a fresh start time and publishes it.
// totalSize is -1 while the size is still unknown.
func (e *syncEngine) start(ctx context.Context, state models.SyncState, totalSize int, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	startTime := e.now()
	state.Status = models.SyncStatusRunning
	state.Progress = 0
	state.TotalSize = totalSize
	state.Error = ""
	state.StartTime = &startTime
	state.EndTime = nil

	return state, e.publish(ctx, state, onUpdate)
}

// finish marks state DONE at 100% and publishes it.
func (e *syncEngine) finish(ctx context.Context, state models.SyncState, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	endTime := e.now()
	state.Status = models.SyncStatusDone
	state.Progress = 100
	state.EndTime = &endTime

	if err := e.publish(ctx, state, onUpdate); err != nil {
		return models.SyncState{}, err
	}
	return state, nil
}

// fail records cause on the state and returns it wrapped.
func (e *syncEngine) fail(ctx context.Context, state models.SyncState, cause error, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	endTime := e.now()
	state.Status = models.SyncStatusFailed
	state.Error = cause.Error()
	state.EndTime = &endTime

	if err := e.publish(ctx, state, onUpdate); err != nil {
		log.Err(err).
			Str("func", "syncEngine.fail").
			Int64("sync_id", state.ID).
			Msg("failed to persist failed sync state")
	}

	return state, fmt.Errorf("sync %d failed: %w", state.ID, cause)
}

// normalizeTarget derives the object type from the query's FROM clause when
// missing and fills the default id and modification date field names.
func normalizeTarget(target models.SyncTarget) (models.SyncTarget, error) {
	if target.ObjectType == "" {
		match := fromClause.FindStringSubmatch(target.Query)
		if match == nil {
			return models.SyncTarget{}, fmt.Errorf("%w: no object type and no FROM clause in query", ErrInvalidTarget)
		}
		target.ObjectType = match[1]
	}
	if target.IDFieldName == "" {
		target.IDFieldName = defaultIDFieldName
	}
	if target.ModificationDateFieldName == "" {
		target.ModificationDateFieldName = defaultModificationDateFieldName
	}
	return target, nil
}

// percent of total done, clamped to 100. An unknown or empty total counts
// as complete.
func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	p := done * 100 / total
	if p > 100 {
		return 100
	}
	return p
}
