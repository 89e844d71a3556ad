package server

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/handler"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	ready      chan<- net.Addr
	logger     *logger.Logger
}

// NewServer creates the servers enabled by cfg. Each onShutdown hook runs when
// shutdown begins; use them to end streaming responses.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, onShutdown ...func()) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	s := &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
	}
	for _, hook := range onShutdown {
		s.httpServer.server.RegisterOnShutdown(hook)
	}

	return s, nil
}

// Run implements Server. It serves until ctx is done or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func (s *server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	errCh := make(chan error, 1)
	s.logger.Info().Msg("Launching HTTP server")
	go func() {
		errCh <- s.httpServer.serve(s.ready)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Shutdown()
	err := <-errCh
	s.logger.Info().Msg("server Shutdown gracefully")
	return err
}

// Shutdown implements Server.
func (s *server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.httpServer.shutdown(ctx)
}
