package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-webapi/logger"
)

const (
	levelError = "error"
	levelWarn  = "warn"
	levelInfo  = "info"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	// HealthPath and ReadyPath are probe endpoints excluded from logging.
	HealthPath string
	ReadyPath  string

	// SlowRequestThreshold marks requests slower than this with result_code WARN.
	// Zero disables slow request detection.
	SlowRequestThreshold time.Duration
}

// Logger returns a request logging middleware with a one second slow request threshold.
func Logger(log logger.Logger, healthPath, readyPath string) echo.MiddlewareFunc {
	return LoggerWithConfig(log, LoggerConfig{
		HealthPath:           healthPath,
		ReadyPath:            readyPath,
		SlowRequestThreshold: time.Second,
	})
}

// LoggerWithConfig returns a middleware that emits one action log per request.
// The log level follows the response status: 5xx is error, 4xx is warn, anything else info.
func LoggerWithConfig(log logger.Logger, cfg LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if path == cfg.HealthPath || path == cfg.ReadyPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the logged status is final.
				c.Error(err)
			}
			latency := time.Since(start)
			status := c.Response().Status

			level, resultCode := determineSeverity(status, latency, cfg.SlowRequestThreshold, err)
			event := createLogEvent(log.WithContext(c.Request().Context()), level)
			if err != nil {
				event = event.Err(err)
			}

			method := c.Request().Method
			uri := c.Request().URL.Path
			event.
				Str("log.type", "action").
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("http.request.method", method).
				Int("http.response.status_code", status).
				Dur("http.server.request.duration", latency).
				Str("url.path", uri).
				Str("http.route", c.Path()).
				Str("client.address", c.RealIP()).
				Str("result_code", resultCode).
				Msg(createActionMessage(method, uri, latency, status))

			return nil
		}
	}
}

// determineSeverity calculates log level and result_code from status, latency and error.
func determineSeverity(status int, latency, threshold time.Duration, err error) (level, resultCode string) {
	if status >= 500 || (err != nil && status == 0) {
		return levelError, "ERROR"
	}
	if status >= 400 {
		return levelWarn, "WARN"
	}
	if threshold > 0 && latency > threshold {
		return levelInfo, "WARN"
	}
	return levelInfo, "INFO"
}

func createLogEvent(log logger.Logger, level string) logger.LogEvent {
	switch level {
	case levelError:
		return log.Error()
	case levelWarn:
		return log.Warn()
	default:
		return log.Info()
	}
}

// createActionMessage renders e.g. "GET /api/pets completed in 12ms with status 2xx".
func createActionMessage(method, path string, latency time.Duration, status int) string {
	return method + " " + path + " completed in " + latency.String() + " with status " + strconv.Itoa(status/100) + "xx"
}
