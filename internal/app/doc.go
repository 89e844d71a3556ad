// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles the sync bridge from its parts and runs it.
//
// New wires the remote adapter, store locator, progress bridge, dispatcher,
// HTTP transport and, in TUI mode, the terminal monitor. Run starts the
// background workers and serves until the context ends, a termination signal
// arrives or the user quits the monitor.
package app
