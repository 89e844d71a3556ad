// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// ErrorKind classifies an action failure for the caller.
type ErrorKind string

const (
	ErrorKindRouting          ErrorKind = "routing"
	ErrorKindInvalidArguments ErrorKind = "invalid_arguments"
	ErrorKindNotFound         ErrorKind = "not_found"
	ErrorKindInvalidState     ErrorKind = "invalid_state"
	ErrorKindExecution        ErrorKind = "execution"
)

// ActionError is the failure descriptor returned to the caller. It carries
// only a kind and a human-readable message.
type ActionError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements error.
func (e *ActionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ActionResult is the single terminal outcome of a submitted action.
// Exactly one of Payload and Err is meaningful; a nil Payload with a nil Err
// is a bare acknowledgement.
type ActionResult struct {
	RequestID string       `json:"requestId"`
	Action    ActionName   `json:"action"`
	Payload   any          `json:"payload,omitempty"`
	Err       *ActionError `json:"error,omitempty"`
}

// OK reports whether the action succeeded.
func (r ActionResult) OK() bool {
	return r.Err == nil
}

// ProgressEvent is an intermediate SyncState observed while an action runs,
// stamped with the store it belongs to.
type ProgressEvent struct {
	SyncState SyncState `json:"syncState"`
	IsGlobal  bool      `json:"isGlobalStore"`
	StoreName string    `json:"storeName"`
}

// MarshalJSON flattens the event into the SyncState object with
// isGlobalStore and storeName added, which is the shape observers expect.
func (e ProgressEvent) MarshalJSON() ([]byte, error) {
	state, err := json.Marshal(e.SyncState)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err = json.Unmarshal(state, &fields); err != nil {
		return nil, err
	}
	fields["isGlobalStore"] = e.IsGlobal
	fields["storeName"] = e.StoreName

	return json.Marshal(fields)
}
