// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Record is an entry of a soup (a named collection) in a local store.
type Record struct {
	EntryID  int64  `json:"_soupEntryId"`
	SoupName string `json:"soupName"`

	// RemoteID is empty until the record has been created remotely.
	RemoteID string `json:"remoteId,omitempty"`

	// Fields is the record body as a JSON object.
	Fields json.RawMessage `json:"fields"`

	LastModified *time.Time `json:"lastModified,omitempty"`

	LocallyCreated bool `json:"__locally_created__"`
	LocallyUpdated bool `json:"__locally_updated__"`
	LocallyDeleted bool `json:"__locally_deleted__"`

	// SyncID is the id of the sync that last wrote this record from remote.
	SyncID int64 `json:"syncId,omitempty"`
}

// IsDirty reports whether the record has local changes not yet pushed.
func (r Record) IsDirty() bool {
	return r.LocallyCreated || r.LocallyUpdated || r.LocallyDeleted
}

// RemoteRecord is a record as returned by the remote sync API.
type RemoteRecord struct {
	ID           string          `json:"id"`
	Fields       json.RawMessage `json:"fields"`
	LastModified time.Time       `json:"lastModified"`
}

// QueryRequest asks the remote API for one page of records.
type QueryRequest struct {
	Target SyncTarget `json:"target"`

	// Since restricts results to records modified after this unix-millis
	// timestamp. Zero fetches everything.
	Since int64 `json:"since"`

	PageToken string `json:"pageToken,omitempty"`
}

// QueryPage is one page of a remote query.
type QueryPage struct {
	Records       []RemoteRecord `json:"records"`
	TotalSize     int            `json:"totalSize"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// IDsRequest asks the remote API for every id matching a target.
type IDsRequest struct {
	Target SyncTarget `json:"target"`
}

// IDsResponse lists remote ids matching a target.
type IDsResponse struct {
	IDs []string `json:"ids"`
}

// RecordWriteRequest carries fields for a remote create or update.
type RecordWriteRequest struct {
	Fields json.RawMessage `json:"fields"`
}

// RecordWriteResponse is the remote answer to a create.
type RecordWriteResponse struct {
	ID string `json:"id"`
}
