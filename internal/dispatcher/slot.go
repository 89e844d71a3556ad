package dispatcher

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Slot is the exclusive token an action holds while its handler runs.
// Waiters are served in the order they started waiting.
type Slot struct {
	sem *semaphore.Weighted
}

var defaultSlot = NewSlot()

// NewSlot returns an independent slot. Production code shares DefaultSlot.
func NewSlot() *Slot {
	return &Slot{sem: semaphore.NewWeighted(1)}
}

// DefaultSlot returns the process-wide slot shared by every dispatcher.
func DefaultSlot() *Slot {
	return defaultSlot
}

// Acquire blocks until the slot is free or ctx is done.
func (s *Slot) Acquire(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

// TryAcquire takes the slot only if it is free.
func (s *Slot) TryAcquire() bool {
	return s.sem.TryAcquire(1)
}

// Release frees the slot. It panics if the slot is not held.
func (s *Slot) Release() {
	s.sem.Release(1)
}
