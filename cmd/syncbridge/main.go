package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/internal/app"
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("syncbridge")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.App.TUI {
		// stdout belongs to the monitor from here on
		log = logger.NewFileLogger("syncbridge", cfg.App.LogFile)
	} else {
		printBuildInfo()
	}

	if cfg.App.Version == "" {
		cfg.App.Version = valueOrNA(buildVersion)
	}
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	bridgeApp, err := app.New(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	runErr := bridgeApp.Run(ctx)
	if err = bridgeApp.Close(); err != nil {
		log.Err(err).Msg("error closing stores")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("run error")
	}
}

func printBuildInfo() {
	fmt.Printf("Build version: %s\n", valueOrNA(buildVersion))
	fmt.Printf("Build date: %s\n", valueOrNA(buildDate))
	fmt.Printf("Build commit: %s\n", valueOrNA(buildCommit))
}

func valueOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
