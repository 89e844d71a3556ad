package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/models"
)

var kindStatusMap = map[models.ErrorKind]int{
	models.ErrorKindRouting:          http.StatusBadRequest,
	models.ErrorKindInvalidArguments: http.StatusBadRequest,
	models.ErrorKindNotFound:         http.StatusNotFound,
	models.ErrorKindInvalidState:     http.StatusConflict,
	models.ErrorKindExecution:        http.StatusInternalServerError,
}

// statusFromKind maps an action error kind to its HTTP status.
func statusFromKind(kind models.ErrorKind) int {
	if status, ok := kindStatusMap[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// statusFromSubmitError maps errors returned synchronously by Submit.
func statusFromSubmitError(err error) int {
	if errors.Is(err, dispatcher.ErrDispatcherStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}
