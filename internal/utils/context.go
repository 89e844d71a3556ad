// Package utils provides general-purpose helper utilities used across the
// bridge: context keys, JSON response writing, the HTTP client wrapper and
// request id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// RequestIDCtxKey is the key under which the id of the action being executed
// is stored in the context.
var RequestIDCtxKey = contextKey("requestID")

// WithRequestID returns a copy of ctx carrying the action request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDCtxKey, requestID)
}

// GetRequestIDFromContext retrieves the action request id from the context.
// ok is false when the value is missing, empty or of an unexpected type.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDCtxKey).(string)
	return requestID, ok && requestID != ""
}
