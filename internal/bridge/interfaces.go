package bridge

import (
	"context"

	"github.com/MKhiriev/go-sync-bridge/models"
)

// Sink is the observer of progress events. Deliver is always called from the
// bridge's delivery goroutine.
type Sink interface {
	Deliver(ctx context.Context, event models.ProgressEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event models.ProgressEvent) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, event models.ProgressEvent) error {
	return f(ctx, event)
}
