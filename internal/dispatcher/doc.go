// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package dispatcher routes named sync actions to their handlers and runs them
// one at a time.
//
// Submit resolves the handler through the Registry on the caller's goroutine.
// An unknown name is rejected right there, before anything is queued. A known
// action is queued and picked up by a worker, which acquires the process-wide
// Slot before running the handler and releases it on every exit path.
// Whatever the handler does, the caller receives exactly one ActionResult on
// the returned channel.
package dispatcher
