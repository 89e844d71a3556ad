package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
)

// Deps groups what the HTTP handler serves.
type Deps struct {
	Services   *service.Services
	Dispatcher ActionDispatcher
	Events     EventSource

	// Gatherer backs /metrics. The route is not registered when nil.
	Gatherer prometheus.Gatherer

	DefaultStoreName string

	// RequestTimeout bounds how long a request waits for an action outcome.
	// Zero waits until the client goes away.
	RequestTimeout time.Duration
}

// Handler serves the calling protocol: actions, the progress event stream,
// version and metrics.
type Handler struct {
	services   *service.Services
	dispatcher ActionDispatcher
	events     EventSource
	gatherer   prometheus.Gatherer

	defaultStoreName string
	requestTimeout   time.Duration

	logger *logger.Logger
}

// NewHandler creates a Handler from deps. Call Init to build its router.
func NewHandler(deps Deps, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:         deps.Services,
		dispatcher:       deps.Dispatcher,
		events:           deps.Events,
		gatherer:         deps.Gatherer,
		defaultStoreName: deps.DefaultStoreName,
		requestTimeout:   deps.RequestTimeout,
		logger:           logger,
	}
}
