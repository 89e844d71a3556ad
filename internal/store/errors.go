package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStoreNotFound is returned when a store is opened without create and
	// no database file exists for it.
	ErrStoreNotFound = errors.New("store not found")

	// ErrSyncStateNotFound is returned when no sync state has the requested id.
	ErrSyncStateNotFound = errors.New("sync state not found")

	// ErrRecordNotFound is returned when no record of the soup has the
	// requested entry id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrSyncStateNotSaved is returned when an INSERT or UPDATE of a sync
	// state completes without error but affects no rows.
	ErrSyncStateNotSaved = errors.New("sync state was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrEncodingColumn is returned when a structured value cannot be encoded
	// into or decoded from its JSON column.
	ErrEncodingColumn = errors.New("failed to encode json column")
)
