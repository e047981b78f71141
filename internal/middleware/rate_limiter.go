package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Default submit limits: a burst of 10, refilled at one request every 6
// seconds (10 per minute) per client IP.
const (
	DefaultSubmitBurst    = 10
	DefaultSubmitInterval = 6 * time.Second
)

// RateLimiter limits the auth and subscribe submits per client IP.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWith(rate.Every(DefaultSubmitInterval), DefaultSubmitBurst)
}

// RateLimiterWith builds a limiter with an explicit rate and burst.
func RateLimiterWith(limit rate.Limit, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier, "path", c.Path())
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
