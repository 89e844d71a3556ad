package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ─────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────

// fakeDispatcher answers Submit with submit, recording every request.
type fakeDispatcher struct {
	mu       sync.Mutex
	requests []models.ActionRequest
	submit   func(req models.ActionRequest) (<-chan models.ActionResult, error)
}

func (d *fakeDispatcher) Submit(req models.ActionRequest) (<-chan models.ActionResult, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	if d.submit == nil {
		return resultOf(models.ActionResult{RequestID: "req-1", Action: req.Name}), nil
	}
	return d.submit(req)
}

func (d *fakeDispatcher) last(t *testing.T) models.ActionRequest {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.requests)
	return d.requests[len(d.requests)-1]
}

func resultOf(res models.ActionResult) <-chan models.ActionResult {
	ch := make(chan models.ActionResult, 1)
	ch <- res
	return ch
}

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func newTestHandler(t *testing.T, d ActionDispatcher) *Handler {
	t.Helper()
	return NewHandler(Deps{
		Services:         &service.Services{AppInfoService: &mockAppInfoService{version: "test-version"}},
		Dispatcher:       d,
		Events:           bridge.NewHub(4, logger.Nop()),
		DefaultStoreName: "smartstore",
	}, logger.Nop())
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_ReturnsNonNil(t *testing.T) {
	h := NewHandler(Deps{}, logger.Nop())

	require.NotNil(t, h)
}

func TestNewHandler_StoresDeps(t *testing.T) {
	svc := &service.Services{}
	d := &fakeDispatcher{}
	hub := bridge.NewHub(1, logger.Nop())

	h := NewHandler(Deps{
		Services:         svc,
		Dispatcher:       d,
		Events:           hub,
		DefaultStoreName: "smartstore",
		RequestTimeout:   time.Second,
	}, logger.Nop())

	assert.Equal(t, svc, h.services)
	assert.Equal(t, d, h.dispatcher)
	assert.Equal(t, hub, h.events)
	assert.Equal(t, "smartstore", h.defaultStoreName)
	assert.Equal(t, time.Second, h.requestTimeout)
	assert.Nil(t, h.gatherer)
}

func TestNewHandler_StoresLogger(t *testing.T) {
	log := logger.Nop()
	h := NewHandler(Deps{}, log)

	assert.Equal(t, log, h.logger)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(Deps{}, logger.Nop())
	h2 := NewHandler(Deps{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}

// ─────────────────────────────────────────────
// Init
// ─────────────────────────────────────────────

func TestInit_ReturnsRouter(t *testing.T) {
	router := newTestHandler(t, &fakeDispatcher{}).Init()

	require.NotNil(t, router)
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newTestHandler(t, &fakeDispatcher{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	router := newTestHandler(t, &fakeDispatcher{}).Init()

	// POST /api/version is not registered, only GET is.
	req := httptest.NewRequest(http.MethodPost, "/api/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
