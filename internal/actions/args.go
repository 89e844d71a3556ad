package actions

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/models"
)

// NewRequest builds the request for action name with its arguments, filling
// the target store from args.
func NewRequest(name models.ActionName, args models.ActionArgs, defaultStoreName string) models.ActionRequest {
	req := models.ActionRequest{Name: name, Args: args}
	req.Store = storeRef(req, defaultStoreName)
	return req
}

// storeRef picks the store from the arguments, falling back to req.Store and
// then to the default store name.
func storeRef(req models.ActionRequest, defaultStoreName string) models.StoreRef {
	ref := req.Store
	if req.Args.IsGlobalStore != nil {
		ref.IsGlobal = *req.Args.IsGlobalStore
	}
	if req.Args.StoreName != nil {
		ref.StoreName = *req.Args.StoreName
	}
	if ref.StoreName == "" {
		ref.StoreName = defaultStoreName
	}
	return ref
}

func parseTarget(raw json.RawMessage) (models.SyncTarget, error) {
	if isEmpty(raw) {
		return models.SyncTarget{}, fmt.Errorf("%w: target is required", ErrInvalidArguments)
	}

	var target models.SyncTarget
	if err := json.Unmarshal(raw, &target); err != nil {
		return models.SyncTarget{}, fmt.Errorf("%w: target: %v", ErrInvalidArguments, err)
	}
	return target, nil
}

func parseOptions(raw json.RawMessage, required bool) (models.SyncOptions, error) {
	if isEmpty(raw) {
		if required {
			return models.SyncOptions{}, fmt.Errorf("%w: options is required", ErrInvalidArguments)
		}
		return models.SyncOptions{}, nil
	}

	var options models.SyncOptions
	if err := json.Unmarshal(raw, &options); err != nil {
		return models.SyncOptions{}, fmt.Errorf("%w: options: %v", ErrInvalidArguments, err)
	}

	switch options.MergeMode {
	case "", models.MergeModeOverwrite, models.MergeModeLeaveIfChanged:
	default:
		return models.SyncOptions{}, fmt.Errorf("%w: unknown mergeMode %q", ErrInvalidArguments, options.MergeMode)
	}
	return options, nil
}

func parseSoupName(args models.ActionArgs) (string, error) {
	if args.SoupName == "" {
		return "", fmt.Errorf("%w: soupName is required", ErrInvalidArguments)
	}
	return args.SoupName, nil
}

func parseSyncID(args models.ActionArgs) (int64, error) {
	if args.SyncID == nil {
		return 0, fmt.Errorf("%w: syncId is required", ErrInvalidArguments)
	}
	return *args.SyncID, nil
}

// isEmpty treats a missing value and JSON null alike.
func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
