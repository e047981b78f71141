package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// VisitorCounter reports how many visitors are being tracked.
type VisitorCounter interface {
	Len() int
}

// ContentLocator reports where the page copy was loaded from.
type ContentLocator interface {
	Path() string
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	visitors VisitorCounter
	content  ContentLocator
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(visitors VisitorCounter, content ContentLocator) *HealthHandler {
	return &HealthHandler{visitors: visitors, content: content}
}

// HealthGet handles GET /health.
func (h *HealthHandler) HealthGet(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Visitors: h.visitors.Len(),
		Content:  h.content.Path(),
	})
}
