package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/migrations"
)

const (
	maxWriteAttempts = 3
	retryBaseDelay   = 50 * time.Millisecond
)

// DB wraps a SQLite connection pool with the classifier that decides which
// write failures are retried.
type DB struct {
	*sql.DB
	classifier ErrorClassifier
	logger     *logger.Logger
}

// Migrate applies every pending migration.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}

// retry runs op until it succeeds, fails with a non-retryable error or has
// been attempted maxWriteAttempts times, backing off on the Fibonacci sequence.
// A cancelled ctx stops retrying and returns ctx.Err().
func (db *DB) retry(ctx context.Context, op func() error) error {
	backoff := retry.WithMaxRetries(maxWriteAttempts-1, retry.NewFibonacci(retryBaseDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(context.Context) error {
		attempt++
		err := op()
		if err == nil || db.classifier == nil || db.classifier.Classify(err) != Retryable {
			return err
		}

		if attempt < maxWriteAttempts {
			db.logger.Warn().
				Err(err).
				Str("func", "DB.retry").
				Int("attempt", attempt).
				Msg("retrying locked database write")
		}
		return retry.RetryableError(err)
	})
}
