package handler

import (
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/handler/http"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

// Handlers groups the transport handlers the server can expose.
type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. The request
// timeout from cfg overrides the one in deps.
func NewHandlers(deps http.Deps, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	deps.RequestTimeout = cfg.RequestTimeout
	return &Handlers{
		HTTP: http.NewHandler(deps, logger),
	}, nil
}
