package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/events"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/nfrund/learnova/internal/storage"
	"github.com/nfrund/learnova/internal/view"
	"github.com/nfrund/learnova/internal/view/dto"
	"github.com/nfrund/learnova/web/src/templates/components"
)

const (
	msgSubscribed        = "Thanks for subscribing!"
	msgAlreadySubscribed = "You're already subscribed."
	msgInvalidEmail      = "Please enter a valid email address."
	msgSubscribeFailed   = "We couldn't save your subscription. Please try again."
)

// SubscribeHandler captures newsletter sign-ups from the footer.
type SubscribeHandler struct {
	site  *Site
	store storage.SubscriberStore
	bus   events.Publisher
}

// NewSubscribeHandler creates a new SubscribeHandler.
func NewSubscribeHandler(site *Site, store storage.SubscriberStore, bus events.Publisher) *SubscribeHandler {
	return &SubscribeHandler{site: site, store: store, bus: bus}
}

// SubscribePost handles POST /subscribe.
func (h *SubscribeHandler) SubscribePost(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return h.render(c, dto.Subscribe{Email: req.Email, Error: msgInvalidEmail})
	}

	added, err := h.store.Add(ctx, req.Email)
	if err != nil {
		logger.Error("Failed to store subscription", "email", events.MaskEmail(req.Email), "error", err)
		return h.render(c, dto.Subscribe{Email: req.Email, Error: msgSubscribeFailed})
	}

	if err := events.Publish(ctx, h.bus, events.NewsletterTopic, v.ID, events.Subscription{Email: req.Email, New: added}); err != nil {
		logger.Error("Failed to publish subscription", "error", err)
	}

	if !added {
		return h.render(c, dto.Subscribe{Message: msgAlreadySubscribed})
	}
	return h.render(c, dto.Subscribe{Message: msgSubscribed})
}

func (h *SubscribeHandler) render(c echo.Context, data dto.Subscribe) error {
	if !isHTMX(c) {
		if data.Error != "" {
			view.SetFlashError(c, data.Error)
		} else {
			view.SetFlashSuccess(c, data.Message)
		}
		return c.Redirect(http.StatusSeeOther, "/#Contact")
	}
	return h.site.Renderer.RenderPage(c, http.StatusOK, components.SubscribeForm(data))
}
