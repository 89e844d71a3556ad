package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusAccepted, w.statusCode())
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = w.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, http.StatusOK, w.statusCode())
	assert.Equal(t, "abcde", rec.Body.String())
}

func TestResponseWriter_StatusWithoutWrites(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	assert.Equal(t, http.StatusOK, w.statusCode())
	assert.Zero(t, w.size)
}

func TestResponseWriter_FlushesThroughUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	require.NoError(t, http.NewResponseController(w).Flush())
	assert.True(t, rec.Flushed)
}
