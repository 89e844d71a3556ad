package actions

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ProgressUpdater hands out the update callback for a store.
// bridge.Bridge implements it.
type ProgressUpdater interface {
	Updater(ref models.StoreRef) models.SyncUpdateFunc
}

// Invoker implements the five sync actions on top of a StoreLocator. Each
// handler resolves the target store, calls its SyncEngine and reports every
// state change through the ProgressUpdater.
type Invoker struct {
	locator          StoreLocator
	progress         ProgressUpdater
	defaultStoreName string
}

// NewInvoker creates an Invoker. defaultStoreName is used when the arguments
// name no store.
func NewInvoker(locator StoreLocator, progress ProgressUpdater, defaultStoreName string) *Invoker {
	return &Invoker{
		locator:          locator,
		progress:         progress,
		defaultStoreName: defaultStoreName,
	}
}

// Register binds the five actions to r.
func (inv *Invoker) Register(r *dispatcher.Registry) {
	r.Register(models.ActionPush, inv.Push)
	r.Register(models.ActionPull, inv.Pull)
	r.Register(models.ActionStatus, inv.Status)
	r.Register(models.ActionResync, inv.Resync)
	r.Register(models.ActionPurgeGhosts, inv.PurgeGhosts)
}

// Push sends local changes of a soup. Requires target and soupName.
func (inv *Invoker) Push(ctx context.Context, req models.ActionRequest) (any, error) {
	target, err := parseTarget(req.Args.Target)
	if err != nil {
		return nil, err
	}
	soupName, err := parseSoupName(req.Args)
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(req.Args.Options, false)
	if err != nil {
		return nil, err
	}

	ref, engine, err := inv.engine(ctx, req)
	if err != nil {
		return nil, err
	}

	return engine.Push(ctx, target, options, soupName, inv.progress.Updater(ref))
}

// Pull fetches remote records into a soup. Requires target, soupName and
// options.
func (inv *Invoker) Pull(ctx context.Context, req models.ActionRequest) (any, error) {
	target, err := parseTarget(req.Args.Target)
	if err != nil {
		return nil, err
	}
	soupName, err := parseSoupName(req.Args)
	if err != nil {
		return nil, err
	}
	options, err := parseOptions(req.Args.Options, true)
	if err != nil {
		return nil, err
	}

	ref, engine, err := inv.engine(ctx, req)
	if err != nil {
		return nil, err
	}

	return engine.Pull(ctx, target, options, soupName, inv.progress.Updater(ref))
}

// Status returns the stored state of a sync. Requires syncId.
func (inv *Invoker) Status(ctx context.Context, req models.ActionRequest) (any, error) {
	syncID, err := parseSyncID(req.Args)
	if err != nil {
		return nil, err
	}

	_, engine, err := inv.engine(ctx, req)
	if err != nil {
		return nil, err
	}

	return engine.Status(ctx, syncID)
}

// Resync runs a stored sync again. Requires syncId.
func (inv *Invoker) Resync(ctx context.Context, req models.ActionRequest) (any, error) {
	syncID, err := parseSyncID(req.Args)
	if err != nil {
		return nil, err
	}

	ref, engine, err := inv.engine(ctx, req)
	if err != nil {
		return nil, err
	}

	return engine.Resync(ctx, syncID, inv.progress.Updater(ref))
}

// PurgeGhosts deletes local records of a completed pull that are gone
// remotely. Requires syncId; the result is a bare acknowledgement.
func (inv *Invoker) PurgeGhosts(ctx context.Context, req models.ActionRequest) (any, error) {
	syncID, err := parseSyncID(req.Args)
	if err != nil {
		return nil, err
	}

	_, engine, err := inv.engine(ctx, req)
	if err != nil {
		return nil, err
	}

	if err = engine.PurgeGhosts(ctx, syncID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (inv *Invoker) engine(ctx context.Context, req models.ActionRequest) (models.StoreRef, service.SyncEngine, error) {
	ref := storeRef(req, inv.defaultStoreName)

	_, engine, err := inv.locator.Resolve(ctx, ref)
	if err != nil {
		logger.FromContext(ctx).Debug().
			Err(err).
			Str("store_name", ref.StoreName).
			Bool("is_global", ref.IsGlobal).
			Msg("store not resolved")
		return ref, nil, err
	}
	return ref, engine, nil
}
