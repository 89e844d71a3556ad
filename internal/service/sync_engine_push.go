package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// runPush sends every dirty record of the soup to the remote, oldest first,
// publishing progress after each. The first failing record fails the sync.
func (e *syncEngine) runPush(ctx context.Context, state models.SyncState, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	dirty, err := e.store.Records().GetDirty(ctx, state.SoupName)
	if err != nil {
		return e.fail(ctx, state, fmt.Errorf("read dirty records: %w", err), onUpdate)
	}

	state, err = e.start(ctx, state, len(dirty), onUpdate)
	if err != nil {
		return models.SyncState{}, err
	}

	for i, record := range dirty {
		if err = e.pushRecord(ctx, state, record); err != nil {
			log.Err(err).
				Str("func", "syncEngine.runPush").
				Int64("sync_id", state.ID).
				Int64("entry_id", record.EntryID).
				Msg("failed to push record")
			return e.fail(ctx, state, err, onUpdate)
		}

		state.Progress = percent(i+1, len(dirty))
		if err = e.publish(ctx, state, onUpdate); err != nil {
			return models.SyncState{}, err
		}
	}

	return e.finish(ctx, state, onUpdate)
}

// pushRecord applies one local change remotely and clears its dirty flags.
// A record created and deleted locally never reaches the remote.
func (e *syncEngine) pushRecord(ctx context.Context, state models.SyncState, record models.Record) error {
	records := e.store.Records()
	objectType := state.Target.ObjectType

	switch {
	case record.LocallyDeleted:
		if record.RemoteID != "" && !record.LocallyCreated {
			if err := e.remote.Delete(ctx, objectType, record.RemoteID); err != nil {
				return fmt.Errorf("delete remote %s: %w", record.RemoteID, err)
			}
		}
		return records.DeleteRecord(ctx, record.SoupName, record.EntryID)

	case record.LocallyCreated || record.RemoteID == "":
		fields, err := selectFields(record.Fields, fieldList(state))
		if err != nil {
			return err
		}
		remoteID, err := e.remote.Create(ctx, objectType, fields)
		if err != nil {
			return fmt.Errorf("create remote record: %w", err)
		}
		return records.MarkSynced(ctx, record.SoupName, record.EntryID, remoteID)

	default:
		fields, err := selectFields(record.Fields, fieldList(state))
		if err != nil {
			return err
		}
		if err = e.remote.Update(ctx, objectType, record.RemoteID, fields); err != nil {
			return fmt.Errorf("update remote %s: %w", record.RemoteID, err)
		}
		return records.MarkSynced(ctx, record.SoupName, record.EntryID, record.RemoteID)
	}
}

// fieldList prefers the options field list over the target one.
func fieldList(state models.SyncState) []string {
	if len(state.Options.FieldList) > 0 {
		return state.Options.FieldList
	}
	return state.Target.FieldList
}

// selectFields keeps only the listed top-level fields. An empty list keeps
// everything.
func selectFields(raw json.RawMessage, fields []string) ([]byte, error) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if len(fields) == 0 {
		return raw, nil
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode record fields: %w", err)
	}

	selected := make(map[string]json.RawMessage, len(fields))
	for _, name := range fields {
		if v, ok := all[name]; ok {
			selected[name] = v
		}
	}

	return json.Marshal(selected)
}
