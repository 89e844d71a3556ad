package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// runPull pages through the remote query, upserting each page with the
// sync's merge mode. Only records modified since the last MaxTimeStamp are
// requested; the new high-water mark is stored when the pull is DONE.
func (e *syncEngine) runPull(ctx context.Context, state models.SyncState, onUpdate models.SyncUpdateFunc) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	since := state.MaxTimeStamp
	if since < 0 {
		since = 0
	}
	maxTimeStamp := state.MaxTimeStamp

	state, err := e.start(ctx, state, -1, onUpdate)
	if err != nil {
		return models.SyncState{}, err
	}

	fetched := 0
	pageToken := ""
	for {
		page, err := e.remote.Query(ctx, models.QueryRequest{
			Target:    state.Target,
			Since:     since,
			PageToken: pageToken,
		})
		if err != nil {
			return e.fail(ctx, state, fmt.Errorf("query remote: %w", err), onUpdate)
		}

		written, err := e.store.Records().UpsertRemote(ctx, state.SoupName, state.ID, page.Records, state.Options.MergeMode)
		if err != nil {
			return e.fail(ctx, state, fmt.Errorf("save remote records: %w", err), onUpdate)
		}

		for _, record := range page.Records {
			if ts := record.LastModified.UnixMilli(); !record.LastModified.IsZero() && ts > maxTimeStamp {
				maxTimeStamp = ts
			}
		}

		fetched += len(page.Records)
		if state.TotalSize < 0 {
			state.TotalSize = page.TotalSize
		}
		state.Progress = percent(fetched, state.TotalSize)

		log.Debug().
			Int64("sync_id", state.ID).
			Int("fetched", fetched).
			Int("written", written).
			Msg("pulled page")

		if page.NextPageToken == "" {
			break
		}
		if err = e.publish(ctx, state, onUpdate); err != nil {
			return models.SyncState{}, err
		}
		pageToken = page.NextPageToken
	}

	state.MaxTimeStamp = maxTimeStamp
	return e.finish(ctx, state, onUpdate)
}
