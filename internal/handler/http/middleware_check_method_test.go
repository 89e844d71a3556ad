package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newMethodCheckedRouter() *chi.Mux {
	router := chi.NewRouter()
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	router.Get("/api/version", ok)
	router.Post("/api/actions/{action}", ok)
	router.MethodNotAllowed(CheckHTTPMethod(router))
	return router
}

func TestCheckHTTPMethod(t *testing.T) {
	router := newMethodCheckedRouter()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"registered static route", http.MethodGet, "/api/version", http.StatusOK},
		{"registered parameterised route", http.MethodPost, "/api/actions/push", http.StatusOK},
		{"wrong method on static route", http.MethodPost, "/api/version", http.StatusNotFound},
		{"wrong method on parameterised route", http.MethodGet, "/api/actions/push", http.StatusNotFound},
		{"delete on parameterised route", http.MethodDelete, "/api/actions/pull", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rr.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestCheckHTTPMethod_DirectCallForwardsMatchingMethod(t *testing.T) {
	router := newMethodCheckedRouter()

	rr := httptest.NewRecorder()
	CheckHTTPMethod(router)(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
