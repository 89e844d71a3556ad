package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-sync-bridge/internal/actions"
	"github.com/MKhiriev/go-sync-bridge/internal/adapter"
	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/handler"
	handlerhttp "github.com/MKhiriev/go-sync-bridge/internal/handler/http"
	"github.com/MKhiriev/go-sync-bridge/internal/locator"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/metrics"
	"github.com/MKhiriev/go-sync-bridge/internal/server"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/internal/tui"
	"github.com/MKhiriev/go-sync-bridge/internal/workers"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// App owns every long-lived component of the bridge process.
type App struct {
	locator *locator.Locator
	workers *workers.Workers
	server  server.Server
	ui      *tui.TUI

	logger *logger.Logger
}

// New builds the application. The default store is created in both the
// global and the user namespace so that actions naming no store succeed on a
// fresh install.
func New(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteAdapter(cfg.Adapter, logger)
	if err != nil {
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	loc := locator.New(cfg.Storage, cfg.App, remote, logger)
	for _, ref := range []models.StoreRef{
		{IsGlobal: false, StoreName: cfg.Storage.DefaultStoreName},
		{IsGlobal: true, StoreName: cfg.Storage.DefaultStoreName},
	} {
		if _, err = loc.Ensure(ctx, ref); err != nil {
			return nil, errors.Join(fmt.Errorf("create default store: %w", err), loc.Close())
		}
	}

	hub := bridge.NewHub(0, logger)
	sinks := []bridge.Sink{bridge.NewLogSink(logger), hub}

	var ui *tui.TUI
	if cfg.App.TUI {
		ui = tui.New(buildInfo, logger)
		sinks = append(sinks, ui.Sink())
	}

	progress := bridge.New(bridge.NewFanoutSink(sinks...), logger, m)

	actionRegistry := dispatcher.NewRegistry()
	actions.NewInvoker(loc, progress, cfg.Storage.DefaultStoreName).Register(actionRegistry)

	d := dispatcher.New(actionRegistry, logger,
		dispatcher.WithPoolSize(cfg.Workers.PoolSize),
		dispatcher.WithResultFence(progress),
		dispatcher.WithClassifier(actions.Classify),
		dispatcher.WithMetrics(m),
	)

	services, err := service.NewServices(*cfg, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create services: %w", err), loc.Close())
	}

	handlers, err := handler.NewHandlers(handlerhttp.Deps{
		Services:         services,
		Dispatcher:       d,
		Events:           hub,
		Gatherer:         registry,
		DefaultStoreName: cfg.Storage.DefaultStoreName,
	}, cfg.Server, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create handlers: %w", err), loc.Close())
	}

	srv, err := server.NewServer(handlers, cfg.Server, logger, hub.Close)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create server: %w", err), loc.Close())
	}

	return &App{
		locator: loc,
		workers: workers.NewWorkers(logger,
			workers.Named{Name: "progress bridge", Worker: progress},
			workers.Named{Name: "dispatcher", Worker: d},
		),
		server: srv,
		ui:     ui,
		logger: logger,
	}, nil
}

// Run serves until ctx ends, a termination signal arrives or the user quits
// the monitor. Running actions complete before Run returns.
func (a *App) Run(ctx context.Context) error {
	if err := a.workers.Start(ctx); err != nil {
		return err
	}
	defer a.workers.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.server.Run(ctx)
	})
	if a.ui != nil {
		g.Go(func() error {
			defer cancel()
			return a.ui.Run(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Msg("monitor closed, shutting down")
		return nil
	}
	return err
}

// Close releases the local stores. Call it after Run returns.
func (a *App) Close() error {
	return a.locator.Close()
}
