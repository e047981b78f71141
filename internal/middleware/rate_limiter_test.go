package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func submit(e *echo.Echo, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_DefaultBurst(t *testing.T) {
	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimiter())

	for i := 0; i < DefaultSubmitBurst; i++ {
		require.Equal(t, http.StatusOK, submit(e, "/auth/login", "192.0.2.2:1234").Code, "submit %d", i+1)
	}

	rec := submit(e, "/auth/login", "192.0.2.2:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusOK, submit(e, "/auth/login", "192.0.2.3:1234").Code, "other clients keep their own budget")
}

func TestRateLimiterWith_SharedAcrossRoutes(t *testing.T) {
	e := echo.New()
	limit := RateLimiterWith(rate.Every(time.Hour), 2)
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/auth/login", ok, limit)
	e.POST("/subscribe", ok, limit)

	assert.Equal(t, http.StatusOK, submit(e, "/auth/login", "198.51.100.7:1").Code)
	assert.Equal(t, http.StatusOK, submit(e, "/subscribe", "198.51.100.7:2").Code)
	assert.Equal(t, http.StatusTooManyRequests, submit(e, "/auth/login", "198.51.100.7:3").Code,
		"one limiter instance counts every route it guards")
}
