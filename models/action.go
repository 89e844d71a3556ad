// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ActionName identifies one of the sync actions a caller can request.
type ActionName string

const (
	ActionPush        ActionName = "push"
	ActionPull        ActionName = "pull"
	ActionStatus      ActionName = "status"
	ActionResync      ActionName = "resync"
	ActionPurgeGhosts ActionName = "purgeGhosts"
)

// actionAliases maps the legacy plugin action names onto the canonical ones.
var actionAliases = map[string]ActionName{
	"syncUp":            ActionPush,
	"syncDown":          ActionPull,
	"getSyncStatus":     ActionStatus,
	"reSync":            ActionResync,
	"cleanResyncGhosts": ActionPurgeGhosts,
}

// ParseActionName normalises a raw action name. Legacy names (syncUp,
// syncDown, getSyncStatus, reSync, cleanResyncGhosts) are translated to their
// canonical form; anything else is returned unchanged so that the registry can
// reject it.
func ParseActionName(raw string) ActionName {
	if alias, ok := actionAliases[raw]; ok {
		return alias
	}
	return ActionName(raw)
}

// StoreRef selects a local store by scope and name.
type StoreRef struct {
	// IsGlobal selects the global store namespace instead of the current
	// user's namespace.
	IsGlobal bool `json:"isGlobalStore"`

	// StoreName is the logical name of the store.
	StoreName string `json:"storeName"`
}

// ActionArgs is the arguments object sent by the caller. Which fields are
// required depends on the action.
type ActionArgs struct {
	Target        json.RawMessage `json:"target,omitempty"`
	SoupName      string          `json:"soupName,omitempty"`
	Options       json.RawMessage `json:"options,omitempty"`
	SyncID        *int64          `json:"syncId,omitempty"`
	IsGlobalStore *bool           `json:"isGlobalStore,omitempty"`
	StoreName     *string         `json:"storeName,omitempty"`
}

// UnmarshalJSON decodes the arguments object. syncId is accepted both as a
// JSON integer and as a string holding one, such as "42".
func (a *ActionArgs) UnmarshalJSON(data []byte) error {
	type plain ActionArgs
	aux := struct {
		*plain
		SyncID json.RawMessage `json:"syncId,omitempty"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseSyncID(aux.SyncID)
	if err != nil {
		return err
	}
	a.SyncID = id
	return nil
}

func parseSyncID(raw json.RawMessage) (*int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("syncId %q is not an integer", text)
		}
		return &id, nil
	}

	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("syncId %s is not an integer", raw)
	}
	return &id, nil
}

// ActionRequest is a single request routed through the dispatcher.
type ActionRequest struct {
	// ID correlates log lines of one action. Filled by the dispatcher when empty.
	ID string `json:"id,omitempty"`

	Name  ActionName `json:"action"`
	Args  ActionArgs `json:"args"`
	Store StoreRef   `json:"store"`
}
