package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// LogSink writes every progress event to the log.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a LogSink writing to logger.
func NewLogSink(logger *logger.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver implements Sink. It logs the event at info level and never fails.
func (s *LogSink) Deliver(_ context.Context, event models.ProgressEvent) error {
	s.logger.Info().
		Int64("sync_id", event.SyncState.ID).
		Str("type", string(event.SyncState.Type)).
		Str("status", string(event.SyncState.Status)).
		Int("progress", event.SyncState.Progress).
		Int("total_size", event.SyncState.TotalSize).
		Str("store_name", event.StoreName).
		Bool("is_global", event.IsGlobal).
		Msg("sync")
	return nil
}

// FanoutSink hands each event to several sinks in order. Every sink is called
// even if an earlier one fails; failures are joined.
type FanoutSink struct {
	sinks []Sink
}

// NewFanoutSink creates a FanoutSink over sinks. Delivery to a FanoutSink
// with no sinks fails with ErrNoSinks.
func NewFanoutSink(sinks ...Sink) *FanoutSink {
	return &FanoutSink{sinks: sinks}
}

// Deliver implements Sink.
func (s *FanoutSink) Deliver(ctx context.Context, event models.ProgressEvent) error {
	if len(s.sinks) == 0 {
		return ErrNoSinks
	}

	var errs []error
	for i, sink := range s.sinks {
		if err := deliverSafe(ctx, sink, event); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// deliverSafe turns a panic of one sink into an error so the others still run.
func deliverSafe(ctx context.Context, sink Sink, event models.ProgressEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSinkPanicked, r)
		}
	}()
	return sink.Deliver(ctx, event)
}
