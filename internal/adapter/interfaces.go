// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote sync API used by
// the sync engine.
//
// The primary abstraction is [RemoteAdapter], which decouples the engine from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_adapter_mock.go -package=mock

// RemoteAdapter is the remote side of a sync. Implementations are responsible
// for serialisation, authentication headers, and mapping transport-level
// errors to the sentinel values defined in this package.
type RemoteAdapter interface {
	// Query fetches one page of records matching req.Target that changed
	// after req.Since.
	Query(ctx context.Context, req models.QueryRequest) (models.QueryPage, error)

	// ListIDs returns the ids of every remote record matching target.
	ListIDs(ctx context.Context, target models.SyncTarget) ([]string, error)

	// Create creates a record of objectType and returns its remote id.
	Create(ctx context.Context, objectType string, fields []byte) (string, error)

	// Update overwrites fields of the remote record id.
	Update(ctx context.Context, objectType, id string, fields []byte) error

	// Delete removes the remote record id. A record that is already gone is
	// not an error.
	Delete(ctx context.Context, objectType, id string) error
}
