package dispatcher

import "errors"

var (
	// ErrUnknownAction is returned by Submit for a name with no registered
	// handler. Nothing is queued.
	ErrUnknownAction = errors.New("unknown action")

	// ErrDispatcherStopped is returned by Submit after Stop and is the outcome
	// of every action still queued when Stop runs.
	ErrDispatcherStopped = errors.New("dispatcher stopped")

	// ErrHandlerPanicked wraps a recovered handler panic.
	ErrHandlerPanicked = errors.New("action handler panicked")
)
