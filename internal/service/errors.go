package service

import "errors"

var (
	// ErrSyncNotFound is returned when no sync with the requested id exists
	// in the store.
	ErrSyncNotFound = errors.New("sync not found")

	// ErrInvalidSyncState is returned when a sync cannot be acted on in its
	// current state (e.g. resync of a running sync, purge of an outbound one).
	ErrInvalidSyncState = errors.New("invalid sync state")

	// ErrInvalidTarget is returned when a target carries neither an object
	// type nor a query it can be derived from.
	ErrInvalidTarget = errors.New("invalid sync target")

	// ErrNoSoupName is returned when a sync is started without a soup name.
	ErrNoSoupName = errors.New("no soup name given")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
