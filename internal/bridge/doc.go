// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package bridge relays progress events from running actions to a single
// notification sink.
//
// Events are queued without blocking the caller and handed to the sink by one
// delivery goroutine, in the order they were queued. Sink calls never run on a
// dispatcher worker and never run concurrently with each other. A sink that
// returns an error or panics is logged and skipped; the failure never reaches
// the action that produced the event.
//
// After queues a fence: a function run by the delivery goroutine once every
// event queued before it has been handed to the sink. The dispatcher uses it
// to publish an action result only after that action's progress events.
package bridge
