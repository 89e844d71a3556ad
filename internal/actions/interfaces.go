// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package actions implements the five sync actions (push, pull, status,
// resync and purgeGhosts) as dispatcher handlers.
//
// Every handler decodes and checks its arguments first, then resolves the
// target store through a StoreLocator, then makes one call into the store's
// SyncEngine. Store selection is the same for all actions: isGlobalStore
// defaults to false and storeName to the configured default store.
package actions

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/internal/store"
	"github.com/MKhiriev/go-sync-bridge/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/locator_mock.go -package=mock

// StoreLocator resolves a store reference to an open store and its engine.
// A store that does not exist yields store.ErrStoreNotFound.
type StoreLocator interface {
	Resolve(ctx context.Context, ref models.StoreRef) (store.DataStore, service.SyncEngine, error)
}
