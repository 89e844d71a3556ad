// Package workers runs the background components of the sync bridge as one
// unit.
//
// Workers are started in the order given and stopped in reverse, so a worker
// that feeds another (the dispatcher feeding the progress bridge) is stopped
// first and its last output is still handled.
package workers

import "context"

// Worker is a background component with an explicit lifecycle.
//
// Start must not block; Stop blocks until the worker has finished its
// in-flight work.
type Worker interface {
	Start(ctx context.Context) error
	Stop()
}
