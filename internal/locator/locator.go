// Package locator resolves a store reference (global flag and store name) to
// an open local store and the sync engine bound to it.
//
// Store files are laid out under the storage directory as
//
//	global/<name>.db
//	users/<userID>/<name>.db
//	users/<userID>/<communityID>/<name>.db
//
// Each file is opened at most once; the store and its engine are cached until
// Close.
package locator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-sync-bridge/internal/adapter"
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/internal/store"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ErrInvalidStoreName is returned for store names that are not safe file names.
var ErrInvalidStoreName = errors.New("invalid store name")

var storeNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

type entry struct {
	store  store.DataStore
	engine service.SyncEngine
}

// Locator implements the store lookup used by the actions. It opens every
// (scope, name) store once and caches it with its SyncEngine until Close.
type Locator struct {
	dir         string
	defaultName string
	userID      int64
	communityID string

	remote adapter.RemoteAdapter
	logger *logger.Logger

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a Locator rooted at storage.Dir. User stores live under the
// app.UserID directory; remote is shared by every SyncEngine it creates.
func New(storage config.Storage, app config.App, remote adapter.RemoteAdapter, logger *logger.Logger) *Locator {
	return &Locator{
		dir:         storage.Dir,
		defaultName: storage.DefaultStoreName,
		userID:      app.UserID,
		communityID: app.CommunityID,
		remote:      remote,
		logger:      logger,
		entries:     make(map[string]entry),
	}
}

// Resolve returns the store for ref and its engine. A store without a file on
// disk yields store.ErrStoreNotFound.
func (l *Locator) Resolve(ctx context.Context, ref models.StoreRef) (store.DataStore, service.SyncEngine, error) {
	e, err := l.open(ctx, ref, false)
	if err != nil {
		return nil, nil, err
	}
	return e.store, e.engine, nil
}

// Ensure opens the store for ref, creating it when missing.
func (l *Locator) Ensure(ctx context.Context, ref models.StoreRef) (store.DataStore, error) {
	e, err := l.open(ctx, ref, true)
	if err != nil {
		return nil, err
	}
	return e.store, nil
}

// Path returns the file backing ref.
func (l *Locator) Path(ref models.StoreRef) (string, error) {
	name := ref.StoreName
	if name == "" {
		name = l.defaultName
	}
	if !storeNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStoreName, name)
	}

	if ref.IsGlobal {
		return filepath.Join(l.dir, "global", name+".db"), nil
	}

	scope := filepath.Join(l.dir, "users", strconv.FormatInt(l.userID, 10))
	if l.communityID != "" {
		if !storeNamePattern.MatchString(l.communityID) {
			return "", fmt.Errorf("%w: community %q", ErrInvalidStoreName, l.communityID)
		}
		scope = filepath.Join(scope, l.communityID)
	}
	return filepath.Join(scope, name+".db"), nil
}

// Close closes every opened store.
func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for path, e := range l.entries {
		if err := e.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", path, err))
		}
		delete(l.entries, path)
	}
	return errors.Join(errs...)
}

// open returns the cached entry for ref, opening its store and building its
// engine on first use.
func (l *Locator) open(ctx context.Context, ref models.StoreRef, create bool) (entry, error) {
	path, err := l.Path(ref)
	if err != nil {
		return entry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[path]; ok {
		return e, nil
	}

	name := ref.StoreName
	if name == "" {
		name = l.defaultName
	}

	ds, err := store.OpenDataStore(ctx, store.OpenParams{
		Path:     path,
		Name:     name,
		IsGlobal: ref.IsGlobal,
		Create:   create,
	}, l.logger)
	if err != nil {
		if !errors.Is(err, store.ErrStoreNotFound) {
			l.logger.Err(err).Str("func", "Locator.open").Str("path", path).Msg("failed to open store")
		}
		return entry{}, fmt.Errorf("store %q (global=%t): %w", name, ref.IsGlobal, err)
	}

	e := entry{store: ds, engine: service.NewSyncEngine(ds, l.remote)}
	l.entries[path] = e
	return e, nil
}
