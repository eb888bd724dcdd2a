package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/go-webapi/config"
	"github.com/gaborage/go-webapi/logger"
)

// SetupMiddlewares registers the HTTP middleware chain: request id, request logging,
// recovery, security headers, CORS, body limit, gzip, rate limiting, request deadline and timing.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config, healthPath, readyPath string) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))

	e.Use(Logger(log, healthPath, readyPath))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("stack", string(stack)).
				Msg("Panic recovered")
			return err
		},
	}))

	// No Content-Security-Policy: the docs page loads Swagger UI assets from a CDN.
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         3600,
	}))

	e.Use(CORS(cfg.Server.CORS.Origins))

	e.Use(middleware.BodyLimit("10M"))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	e.Use(RateLimit(cfg.App.Rate.Limit))

	e.Use(Timeout(cfg.Server.Timeout.Middleware))

	e.Use(Timing())
}
