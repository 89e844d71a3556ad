package actions

import (
	"errors"

	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/locator"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/internal/store"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ErrInvalidArguments is wrapped by every argument validation failure.
var ErrInvalidArguments = errors.New("invalid arguments")

var kinds = dispatcher.KindTable{
	{Err: ErrInvalidArguments, Kind: models.ErrorKindInvalidArguments},
	{Err: service.ErrNoSoupName, Kind: models.ErrorKindInvalidArguments},
	{Err: service.ErrInvalidTarget, Kind: models.ErrorKindInvalidArguments},
	{Err: locator.ErrInvalidStoreName, Kind: models.ErrorKindInvalidArguments},
	{Err: service.ErrSyncNotFound, Kind: models.ErrorKindNotFound},
	{Err: store.ErrStoreNotFound, Kind: models.ErrorKindNotFound},
	{Err: service.ErrInvalidSyncState, Kind: models.ErrorKindInvalidState},
}

// Classify maps errors returned by the handlers to caller-facing kinds.
func Classify(err error) models.ErrorKind {
	return kinds.Classify(err)
}
