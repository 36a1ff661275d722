package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistat/roadinj/internal/api/handlers"
	"github.com/epistat/roadinj/pkg/config"
	"github.com/epistat/roadinj/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(handlers.NewDataHandler(nil, testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestGetCohorts_BadYearParam(t *testing.T) {
	router := NewRouter(handlers.NewDataHandler(nil, testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/cohorts?year=ninety", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "year must be an integer")
}

func TestUnknownRoute(t *testing.T) {
	router := NewRouter(handlers.NewDataHandler(nil, testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
