package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/member-search-service/internal/handler"
)

func newEngine(t *testing.T, origins []string) (*gin.Engine, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := handler.NewEngine(zerolog.New(&buf), origins)
	handler.Register(r, stubPinger{}, nil, nil)
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })
	return r, &buf
}

func TestRequestID_Generated(t *testing.T) {
	r, buf := newEngine(t, nil)
	w := do(r, http.MethodGet, "/live", nil)

	id := w.Header().Get(handler.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "expected uuid request id, got %q", id)
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), `"route":"/live"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestRequestID_Propagated(t *testing.T) {
	r, _ := newEngine(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(handler.RequestIDHeader))
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	r, buf := newEngine(t, nil)
	w := do(r, http.MethodGet, "/panic", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"internal_error"`)
	assert.Contains(t, w.Body.String(), `"request_id":"`)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestAccessLog_UnmatchedRoute(t *testing.T) {
	r, buf := newEngine(t, nil)
	w := do(r, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, buf.String(), `"route":"unmatched"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestCORS(t *testing.T) {
	r, _ := newEngine(t, []string{"http://localhost:3000"})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v2/members", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/live", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/live", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
