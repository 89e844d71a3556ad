// Package server runs the HTTP transport of the sync bridge.
//
// It covers startup, signal handling and graceful shutdown. Long-lived event
// streams are ended through shutdown hooks so that shutdown does not wait on
// them.
package server
