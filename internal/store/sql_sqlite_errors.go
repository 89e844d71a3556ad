package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result of [ErrorClassifier.Classify]. It tells
// whether a failed database operation should be retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations and corruption.
	NonRetryable ErrorClassification = iota

	// Retryable marks failures that may succeed on another attempt, such as
	// a write lock held by another connection.
	Retryable
)

// ErrorClassifier decides whether a database error is worth retrying.
type ErrorClassifier interface {
	Classify(err error) ErrorClassification
}

// SQLiteErrorClassifier implements [ErrorClassifier] for go-sqlite3.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier creates a SQLiteErrorClassifier.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify unwraps err to a [sqlite3.Error] and delegates to
// [ClassifySQLiteError]. Other errors are [NonRetryable].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return ClassifySQLiteError(sqliteErr)
	}

	return NonRetryable
}

// ClassifySQLiteError maps a primary SQLite result code to an
// [ErrorClassification]. See https://www.sqlite.org/rescode.html.
//
// Retryable: SQLITE_BUSY, SQLITE_LOCKED.
// Everything else, including SQLITE_CONSTRAINT, SQLITE_READONLY and
// SQLITE_CORRUPT, is [NonRetryable].
func ClassifySQLiteError(err sqlite3.Error) ErrorClassification {
	switch err.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}
	return NonRetryable
}
