package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/handlers"
	"github.com/nfrund/learnova/internal/middleware"
)

// setupErrorHandling installs the HTTP error handler. Errors that are not an
// *echo.HTTPError are bugs, so they are logged with a stack trace and shown
// as a plain 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if code >= http.StatusInternalServerError {
				logger.Error("HTTP error", "status", code, "error", err)
			} else {
				logger.Debug("HTTP error", "status", code, "error", err)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
		}

		if rerr := writeError(c, code, message); rerr != nil {
			logger.Error("Failed to write error response", "error", rerr)
		}
	}
}

func writeError(c echo.Context, code int, message string) error {
	req := c.Request()
	switch {
	case req.Method == http.MethodHead:
		return c.NoContent(code)
	case wantsJSON(req):
		return c.JSON(code, handlers.ErrorResponse{
			Code:    strings.ReplaceAll(strings.ToLower(http.StatusText(code)), " ", "_"),
			Message: message,
		})
	default:
		return c.String(code, message)
	}
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		req.URL.Path == "/health"
}
