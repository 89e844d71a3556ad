// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package queue provides an unbounded, goroutine-safe FIFO queue.
//
// Push never blocks, which lets callers hand work off to a background
// goroutine without waiting for it. Pop blocks until an item is available,
// the queue is closed and drained, or the context is cancelled.
package queue

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO queue of T.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	// signal has a buffer of one; multiple pushes coalesce into one wakeup.
	signal chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items:  make([]T, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Push appends item to the back of the queue. It returns false if the queue
// has been closed, in which case the item is not stored.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, item)
	q.notify()

	return true
}

// TryPop removes and returns the front item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	// wake another waiter if work remains
	if len(q.items) > 0 || q.closed {
		q.notify()
	}

	return item, true
}

// Pop removes and returns the front item, blocking until one is available.
// It returns false once the queue is closed and empty, or when ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	for {
		if item, ok := q.TryPop(); ok {
			return item, true
		}

		q.mu.Lock()
		closed := q.closed && len(q.items) == 0
		if closed {
			// pass the wakeup on to the next blocked consumer
			q.notify()
		}
		q.mu.Unlock()
		if closed {
			var zero T
			return zero, false
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-q.signal:
		}
	}
}

// Drain removes and returns every queued item.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = make([]T, 0, 16)
	return items
}

// Close marks the queue closed. Items already queued can still be popped.
// Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notify()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// notify must be called with q.mu held.
func (q *Queue[T]) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
