// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "strings"

// humanizeSyncError shortens transport failures of the remote API to a
// message a user can act on.
func humanizeSyncError(msg string) string {
	if msg == "" {
		return ""
	}

	s := strings.ToLower(msg)
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "remote sync API unavailable"
	}

	return msg
}
