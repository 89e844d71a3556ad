package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the chi router with every route and middleware.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Group(func(r chi.Router) {
		r.Use(h.withTraceID, h.withLogging)

		r.Post("/api/actions/{action}", h.runAction)
		r.Get("/api/events", h.streamEvents)
		r.Get("/api/version", h.getServerVersion)
	})

	if h.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
