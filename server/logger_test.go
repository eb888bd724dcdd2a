package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedEcho(log *testLogger) *echo.Echo {
	cfg := minimalConfig()
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		customErrorHandler(err, c, cfg, log)
	}
	e.Use(Logger(log, testHealthPath, testReadyPath))
	return e
}

func TestRequestLoggerEmitsActionLog(t *testing.T) {
	log := &testLogger{}
	e := newLoggedEcho(log)
	e.GET("/pets/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "rex")
	})

	serve(e, http.MethodGet, "/pets/7")

	entries, fields := log.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "info:GET /pets/7 completed in "+fields[0]["http.server.request.duration"].(time.Duration).String()+" with status 2xx", entries[0])
	assert.Equal(t, "action", fields[0]["log.type"])
	assert.Equal(t, "/pets/:id", fields[0]["http.route"])
	assert.Equal(t, http.StatusOK, fields[0]["http.response.status_code"])
	assert.Equal(t, "INFO", fields[0]["result_code"])
}

func TestRequestLoggerLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantCode  int
	}{
		{
			name:      "client_error",
			handler:   func(echo.Context) error { return NewNotFoundError("Pet") },
			wantLevel: "warn",
			wantCode:  http.StatusNotFound,
		},
		{
			name:      "server_error",
			handler:   func(echo.Context) error { return errors.New("boom") },
			wantLevel: "error",
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &testLogger{}
			e := newLoggedEcho(log)
			e.GET("/x", tt.handler)

			rec := serve(e, http.MethodGet, "/x")
			assert.Equal(t, tt.wantCode, rec.Code)

			_, fields := log.snapshot()
			require.NotEmpty(t, fields)
			last := fields[len(fields)-1]
			assert.Equal(t, tt.wantCode, last["http.response.status_code"])
			assert.NotNil(t, last["error"])

			entries, _ := log.snapshot()
			assert.Regexp(t, "^"+tt.wantLevel+":GET /x completed", entries[len(entries)-1])
		})
	}
}

func TestRequestLoggerSkipsHealthAndReady(t *testing.T) {
	log := &testLogger{}
	e := newLoggedEcho(log)
	e.GET(testHealthPath, okHandler)
	e.GET(testReadyPath, okHandler)

	serve(e, http.MethodGet, testHealthPath)
	serve(e, http.MethodGet, testReadyPath)

	entries, _ := log.snapshot()
	assert.Empty(t, entries)
}

func TestDetermineSeverity(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		latency   time.Duration
		threshold time.Duration
		err       error
		wantLevel string
		wantCode  string
	}{
		{"ok", 200, time.Millisecond, time.Second, nil, "info", "INFO"},
		{"slow", 200, 2 * time.Second, time.Second, nil, "info", "WARN"},
		{"slow_detection_disabled", 200, 2 * time.Second, 0, nil, "info", "INFO"},
		{"client_error", 422, time.Millisecond, time.Second, nil, "warn", "WARN"},
		{"server_error", 503, time.Millisecond, time.Second, nil, "error", "ERROR"},
		{"error_without_status", 0, time.Millisecond, time.Second, errors.New("x"), "error", "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, code := determineSeverity(tt.status, tt.latency, tt.threshold, tt.err)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestCreateActionMessage(t *testing.T) {
	assert.Equal(t, "POST /pets completed in 12ms with status 4xx",
		createActionMessage(http.MethodPost, "/pets", 12*time.Millisecond, http.StatusBadRequest))
}
