// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the sync engine that moves soup records between a
// local store and the remote sync API, and the small application services
// used by the HTTP layer.
package service

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncEngine runs syncs against one local store. onUpdate receives every
// intermediate state, already persisted, before the call returns the final
// one. A nil onUpdate is allowed.
type SyncEngine interface {
	// Push sends local changes of soupName to the remote side.
	Push(ctx context.Context, target models.SyncTarget, options models.SyncOptions, soupName string, onUpdate models.SyncUpdateFunc) (models.SyncState, error)

	// Pull fetches remote records matching target into soupName.
	Pull(ctx context.Context, target models.SyncTarget, options models.SyncOptions, soupName string, onUpdate models.SyncUpdateFunc) (models.SyncState, error)

	// Status returns the stored state of sync id.
	Status(ctx context.Context, id int64) (models.SyncState, error)

	// Resync runs a previously defined sync again. Pulls continue from the
	// last remote timestamp they saw.
	Resync(ctx context.Context, id int64, onUpdate models.SyncUpdateFunc) (models.SyncState, error)

	// PurgeGhosts removes local records of a completed pull that no longer
	// exist remotely.
	PurgeGhosts(ctx context.Context, id int64) error
}

// AppInfoService exposes build information to the HTTP layer.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
