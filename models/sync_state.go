// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncType tells whether a sync sends local changes or fetches remote ones.
type SyncType string

const (
	SyncTypeUp   SyncType = "syncUp"
	SyncTypeDown SyncType = "syncDown"
)

// SyncStatus is the lifecycle state of a sync.
type SyncStatus string

const (
	SyncStatusNew     SyncStatus = "NEW"
	SyncStatusRunning SyncStatus = "RUNNING"
	SyncStatusDone    SyncStatus = "DONE"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// MergeMode controls how incoming remote records treat locally modified ones.
type MergeMode string

const (
	// MergeModeOverwrite replaces local records even if they have unsynced changes.
	MergeModeOverwrite MergeMode = "OVERWRITE"
	// MergeModeLeaveIfChanged keeps local records that have unsynced changes.
	MergeModeLeaveIfChanged MergeMode = "LEAVE_IF_CHANGED"
)

// SyncTarget describes what a sync covers on the remote side.
type SyncTarget struct {
	// Type is the target kind, e.g. "soql".
	Type string `json:"type"`

	// Query selects the remote records for inbound syncs.
	Query string `json:"query,omitempty"`

	// ObjectType is the remote object type. When empty it is derived from the
	// FROM clause of Query.
	ObjectType string `json:"objectType,omitempty"`

	// FieldList restricts the fields sent on outbound syncs.
	FieldList []string `json:"fieldlist,omitempty"`

	// IDFieldName is the name of the remote id field. Defaults to "Id".
	IDFieldName string `json:"idFieldName,omitempty"`

	// ModificationDateFieldName is the name of the remote last-modified field.
	// Defaults to "LastModifiedDate".
	ModificationDateFieldName string `json:"modificationDateFieldName,omitempty"`
}

// SyncOptions tune how a sync runs.
type SyncOptions struct {
	MergeMode MergeMode `json:"mergeMode,omitempty"`
	FieldList []string  `json:"fieldlist,omitempty"`
}

// SyncState is the persisted progress and result record of a sync. Values are
// treated as immutable snapshots once handed to an update callback.
type SyncState struct {
	ID           int64       `json:"_soupEntryId"`
	Type         SyncType    `json:"type"`
	Target       SyncTarget  `json:"target"`
	Options      SyncOptions `json:"options"`
	SoupName     string      `json:"soupName"`
	Status       SyncStatus  `json:"status"`
	Progress     int         `json:"progress"`
	TotalSize    int         `json:"totalSize"`
	MaxTimeStamp int64       `json:"maxTimeStamp"`
	Error        string      `json:"error,omitempty"`
	StartTime    *time.Time  `json:"startTime,omitempty"`
	EndTime      *time.Time  `json:"endTime,omitempty"`
}

// IsRunning reports whether the sync is in progress.
func (s SyncState) IsRunning() bool {
	return s.Status == SyncStatusRunning
}

// IsDone reports whether the sync completed successfully.
func (s SyncState) IsDone() bool {
	return s.Status == SyncStatusDone
}

// SyncUpdateFunc receives intermediate SyncState snapshots while a sync runs.
type SyncUpdateFunc func(state SyncState)
