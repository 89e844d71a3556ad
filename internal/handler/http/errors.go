// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidBody is reported when the arguments object cannot be decoded.
	ErrInvalidBody = errors.New("request body is not a JSON arguments object")

	// ErrOutcomeTimeout is reported when the request ends before the action
	// does. The action itself keeps running.
	ErrOutcomeTimeout = errors.New("timed out waiting for action outcome")

	// ErrStreamingUnsupported is returned when the response writer cannot
	// flush, which server-sent events require.
	ErrStreamingUnsupported = errors.New("streaming unsupported")
)
