package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/metrics"
	"github.com/MKhiriev/go-sync-bridge/internal/queue"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// item is either an event or a fence.
type item struct {
	event *models.ProgressEvent
	fence func()
}

// Bridge is the ProgressBridge. The zero value is not usable; call New.
type Bridge struct {
	sink    Sink
	items   *queue.Queue[item]
	metrics *metrics.Metrics
	logger  *logger.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	wg      sync.WaitGroup
}

// New creates a Bridge delivering to sink. Events queued before Start are
// delivered once it runs.
func New(sink Sink, logger *logger.Logger, m *metrics.Metrics) *Bridge {
	return &Bridge{
		sink:    sink,
		items:   queue.New[item](),
		metrics: m,
		logger:  logger,
	}
}

// Start launches the delivery goroutine. ctx is passed to the sink; the
// goroutine itself runs until Stop. Calling Start twice is a no-op; a
// stopped bridge cannot be restarted.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return ErrBridgeStopped
	}
	if b.running {
		return nil
	}
	b.running = true

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(ctx)
	}()
	return nil
}

// Stop stops accepting new items, delivers everything already queued and
// waits for the delivery goroutine to exit. On a bridge that was never
// started, queued events and fences are handled on the caller in order.
func (b *Bridge) Stop() {
	b.mu.Lock()
	wasRunning := b.running
	b.running = false
	b.stopped = true
	b.mu.Unlock()

	b.items.Close()
	b.wg.Wait()

	if !wasRunning {
		for _, it := range b.items.Drain() {
			b.handle(context.Background(), it)
		}
	}
}

// Notify queues event for delivery. It never blocks.
func (b *Bridge) Notify(event models.ProgressEvent) {
	if !b.items.Push(item{event: &event}) {
		b.logger.Warn().
			Int64("sync_id", event.SyncState.ID).
			Str("status", string(event.SyncState.Status)).
			Msg("bridge stopped, progress event dropped")
	}
}

// Updater returns the update callback for a sync running against ref. Every
// state it receives is stamped with ref and queued.
func (b *Bridge) Updater(ref models.StoreRef) models.SyncUpdateFunc {
	return func(state models.SyncState) {
		b.Notify(models.ProgressEvent{
			SyncState: state,
			IsGlobal:  ref.IsGlobal,
			StoreName: ref.StoreName,
		})
	}
}

// After runs fn on the delivery goroutine once every item queued before it has
// been handled. If the bridge is stopped, fn runs immediately on the caller.
func (b *Bridge) After(fn func()) {
	if !b.items.Push(item{fence: fn}) {
		b.runFence(fn)
	}
}

func (b *Bridge) run(ctx context.Context) {
	// Only Close ends the loop, so queued fences are never lost.
	popCtx := context.WithoutCancel(ctx)

	for {
		it, ok := b.items.Pop(popCtx)
		if !ok {
			return
		}

		b.handle(ctx, it)
	}
}

func (b *Bridge) handle(ctx context.Context, it item) {
	if it.fence != nil {
		b.runFence(it.fence)
		return
	}
	b.deliver(ctx, *it.event)
}

// deliver hands event to the sink. Failures and panics are logged and
// counted; they never stop delivery of later events.
func (b *Bridge) deliver(ctx context.Context, event models.ProgressEvent) {
	log := b.logger

	defer func() {
		if r := recover(); r != nil {
			b.metrics.NotificationFailed()
			log.Error().
				Err(fmt.Errorf("%w: %v", ErrSinkPanicked, r)).
				Str("func", "Bridge.deliver").
				Int64("sync_id", event.SyncState.ID).
				Msg("notification sink panicked")
		}
	}()

	if err := b.sink.Deliver(ctx, event); err != nil {
		b.metrics.NotificationFailed()
		log.Err(err).
			Str("func", "Bridge.deliver").
			Int64("sync_id", event.SyncState.ID).
			Str("status", string(event.SyncState.Status)).
			Msg("failed to deliver progress event")
		return
	}

	b.metrics.ProgressDelivered()
}

func (b *Bridge) runFence(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("func", "Bridge.runFence").
				Interface("panic", r).
				Msg("fence function panicked")
		}
	}()

	fn()
}
