package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/handler/http"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

func TestNewHandlers_HTTPAddress(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080"}

	h, err := NewHandlers(http.Deps{DefaultStoreName: "smartstore"}, cfg, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP, "expected HTTP handler to be initialised")
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(http.Deps{}, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}

func TestNewHandlers_RoutesAreServed(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080", RequestTimeout: time.Second}

	h, err := NewHandlers(http.Deps{}, cfg, logger.Nop())

	require.NoError(t, err)
	assert.NotNil(t, h.HTTP.Init())
}
