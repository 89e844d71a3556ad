package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

const defaultSubscriberBuffer = 64

// Subscription is one listener of a Hub.
type Subscription struct {
	events chan models.ProgressEvent
	done   chan struct{}
	once   sync.Once
}

// Events yields the events published after Subscribe.
func (s *Subscription) Events() <-chan models.ProgressEvent {
	return s.events
}

// Done is closed when the subscription ends, either through Unsubscribe or
// because the hub dropped a subscriber that fell behind.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) end() {
	s.once.Do(func() { close(s.done) })
}

// Hub is a Sink that broadcasts events to any number of subscribers, such as
// server-sent event streams. Each subscriber has a bounded buffer; one whose
// buffer is full is dropped rather than missing events silently.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscription]struct{}
	buffer      int
	closed      bool

	logger *logger.Logger
}

// NewHub creates a Hub whose subscribers buffer up to buffer events. A
// non-positive buffer selects defaultSubscriberBuffer.
func NewHub(buffer int, logger *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		subscribers: make(map[*Subscription]struct{}),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a new subscriber. On a closed hub the returned
// subscription is already done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		events: make(chan models.ProgressEvent, h.buffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.end()
		return sub
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and ends it. It is safe to call more than once and
// after the hub was closed.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()

	sub.end()
}

// Deliver implements Sink. It never blocks on a subscriber.
func (h *Hub) Deliver(_ context.Context, event models.ProgressEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for sub := range h.subscribers {
		select {
		case sub.events <- event:
		default:
			delete(h.subscribers, sub)
			sub.end()
			errs = append(errs, ErrSubscriberTooSlow)
		}
	}

	if len(errs) > 0 {
		h.logger.Warn().
			Int("dropped", len(errs)).
			Int("remaining", len(h.subscribers)).
			Msg("dropped slow event subscribers")
	}
	return errors.Join(errs...)
}

// Len returns the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close ends every subscription. Later subscriptions end immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		sub.end()
	}
}
