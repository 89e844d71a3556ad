package server

import "context"

// Server defines the lifecycle of the transport servers managed by this
// package.
type Server interface {
	// Run serves requests until ctx is done or a termination signal arrives,
	// then shuts down gracefully. It returns an error if serving fails.
	Run(ctx context.Context) error

	// Shutdown gracefully stops serving. It is safe to call before Run
	// returns.
	Shutdown()
}
