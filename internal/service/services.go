package service

import (
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

// Services groups the application services handed to the HTTP layer. Sync
// engines are not listed here: there is one per store, owned by the locator.
type Services struct {
	AppInfoService AppInfoService
}

func NewServices(cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AppInfoService: appInfo,
	}, nil
}
