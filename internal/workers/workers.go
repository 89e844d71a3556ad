package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

// Named pairs a worker with the name used in logs and errors.
type Named struct {
	Name   string
	Worker Worker
}

// Workers starts named workers in order and stops them in reverse.
type Workers struct {
	workers []Named
	logger  *logger.Logger

	mu      sync.Mutex
	started int
}

// NewWorkers creates a Workers over workers. Nothing runs until Start.
func NewWorkers(logger *logger.Logger, workers ...Named) *Workers {
	return &Workers{
		workers: workers,
		logger:  logger,
	}
}

// Start starts every worker not yet started, in order. If one fails, the
// workers already started are stopped and the error is returned.
func (w *Workers) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for w.started < len(w.workers) {
		named := w.workers[w.started]
		if err := named.Worker.Start(ctx); err != nil {
			w.logger.Err(err).Str("func", "*Workers.Start").Str("worker", named.Name).Msg("error starting worker")
			w.stopLocked()
			return fmt.Errorf("start %s: %w", named.Name, err)
		}
		w.started++
		w.logger.Info().Str("worker", named.Name).Msg("worker started")
	}
	return nil
}

// Stop stops started workers in reverse order.
func (w *Workers) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
}

func (w *Workers) stopLocked() {
	for i := w.started - 1; i >= 0; i-- {
		named := w.workers[i]
		named.Worker.Stop()
		w.logger.Info().Str("worker", named.Name).Msg("worker stopped")
	}
	w.started = 0
}
