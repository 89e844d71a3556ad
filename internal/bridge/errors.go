package bridge

import "errors"

var (
	// ErrSinkPanicked wraps a recovered sink panic.
	ErrSinkPanicked = errors.New("notification sink panicked")

	// ErrSubscriberTooSlow is reported for every subscriber the hub drops
	// because its buffer was full.
	ErrSubscriberTooSlow = errors.New("subscriber too slow, dropped")

	// ErrNoSinks is returned by a FanoutSink built without sinks.
	ErrNoSinks = errors.New("fan-out has no sinks")

	// ErrBridgeStopped is returned by Start after Stop.
	ErrBridgeStopped = errors.New("progress bridge stopped")
)
