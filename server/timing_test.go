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

func TestTimingSetsResponseTimeHeader(t *testing.T) {
	e := echo.New()
	e.Use(Timing())
	e.GET("/slow", func(c echo.Context) error {
		time.Sleep(5 * time.Millisecond)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rec := serve(e, http.MethodGet, "/slow")

	header := rec.Header().Get(HeaderXResponseTime)
	require.NotEmpty(t, header)
	d, err := time.ParseDuration(header)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
}

func TestTimingOnErrorResponse(t *testing.T) {
	e := echo.New()
	e.Use(Timing())
	e.GET("/fail", func(echo.Context) error {
		return errors.New("boom")
	})

	rec := serve(e, http.MethodGet, "/fail")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderXResponseTime))
}
