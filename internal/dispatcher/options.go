package dispatcher

import (
	"github.com/MKhiriev/go-sync-bridge/internal/metrics"
)

// ResultFence orders result delivery after previously queued progress events.
// bridge.Bridge implements it.
type ResultFence interface {
	After(fn func())
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSlot replaces the process-wide slot.
func WithSlot(slot *Slot) Option {
	return func(d *Dispatcher) {
		if slot != nil {
			d.slot = slot
		}
	}
}

// WithPoolSize sets the number of worker goroutines. Values below one are
// ignored. With more than one worker the slot still allows a single running
// handler, but queued actions may start out of submission order.
func WithPoolSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.poolSize = n
		}
	}
}

// WithResultFence publishes results through fence instead of directly.
func WithResultFence(fence ResultFence) Option {
	return func(d *Dispatcher) {
		d.fence = fence
	}
}

// WithClassifier sets how handler errors map to error kinds.
func WithClassifier(classify Classifier) Option {
	return func(d *Dispatcher) {
		if classify != nil {
			d.classify = classify
		}
	}
}

// WithMetrics records dispatch metrics on m. A nil m disables them.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}
