package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/events"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/nfrund/learnova/internal/view"
	"github.com/nfrund/learnova/internal/visitor"
	"github.com/nfrund/learnova/web/src/templates/components"
	g "maragu.dev/gomponents"
)

// statusStopPolling tells htmx to cancel an "every" trigger.
const statusStopPolling = 286

// AuthHandler serves the auth modal. Every form posts here and is answered
// with the re-rendered #auth-panel fragment; requests made without htmx are
// redirected back to the landing page, which renders the modal inline.
type AuthHandler struct {
	site *Site
	bus  events.Publisher
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(site *Site, bus events.Publisher) *AuthHandler {
	return &AuthHandler{site: site, bus: bus}
}

// ModalGet opens the modal (GET /auth/modal). The flow and the carousel
// start over on every open.
func (h *AuthHandler) ModalGet(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	content := h.site.Content.Content()
	v.OpenModal(len(content.Slides))

	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.site.Renderer.RenderPage(c, http.StatusOK, components.AuthModal(h.site.modalData(content, v)))
}

// ModalClose closes the modal (POST /auth/modal/close) and clears the flow.
func (h *AuthHandler) ModalClose(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	return h.dismiss(c, v)
}

// dismiss closes the modal and answers with an empty #auth-modal-root plus
// the nav, which changes when the modal closes after a login.
func (h *AuthHandler) dismiss(c echo.Context, v *visitor.Visitor) error {
	v.CloseModal()
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	c.Response().Header().Set("HX-Retarget", "#auth-modal-root")
	c.Response().Header().Set("HX-Reswap", "innerHTML")
	content := h.site.Content.Content()
	return h.site.Renderer.RenderFragments(c, http.StatusOK, components.SiteNav(navData(content, v), true))
}

// SlideGet advances the carousel (GET /auth/modal/slide). Once the modal is
// closed the poll is told to stop.
func (h *AuthHandler) SlideGet(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	if !v.ModalOpen() || !v.Carousel.Running() {
		return c.NoContent(statusStopPolling)
	}
	content := h.site.Content.Content()
	v.Carousel.Resize(len(content.Slides))
	v.Carousel.Tick()
	return h.site.Renderer.RenderPage(c, http.StatusOK, components.CarouselTrack(h.site.carouselData(content, v)))
}

// PanelGet renders the panel for the current step (GET /auth/panel). A
// success notice that holds the modal for the display delay fetches it.
func (h *AuthHandler) PanelGet(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	if !v.ModalOpen() || v.Flow.State().IsClosed() {
		return h.dismiss(c, v)
	}
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	content := h.site.Content.Content()
	return h.site.Renderer.RenderPage(c, http.StatusOK, components.AuthPanel(h.site.panelData(content, v, authflow.Outcome{})))
}

// ModePost switches between login and signup (POST /auth/mode).
func (h *AuthHandler) ModePost(c echo.Context) error {
	return h.navigate(c, func(f *authflow.Flow) error {
		return f.SetMode(authflow.ParseMode(c.FormValue("mode")))
	})
}

// MethodPost switches a login between password and one-time code
// (POST /auth/method).
func (h *AuthHandler) MethodPost(c echo.Context) error {
	return h.navigate(c, func(f *authflow.Flow) error {
		return f.SetMethod(authflow.ParseMethod(c.FormValue("method")))
	})
}

// ForgotGet shows the forgot password form (GET /auth/forgot).
func (h *AuthHandler) ForgotGet(c echo.Context) error {
	return h.navigate(c, (*authflow.Flow).GoForgotPassword)
}

// BackPost returns to the auth form (POST /auth/back).
func (h *AuthHandler) BackPost(c echo.Context) error {
	return h.navigate(c, (*authflow.Flow).Back)
}

// LoginPost handles the password login form.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.SubmitLogin(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	})
}

// SignupPost handles the signup form.
func (h *AuthHandler) SignupPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.SubmitSignup(c.Request().Context(),
			c.FormValue("name"),
			c.FormValue("email"),
			c.FormValue("password"),
			c.FormValue("confirmPassword"),
		)
	})
}

// OTPRequestPost asks for a login code.
func (h *AuthHandler) OTPRequestPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.RequestLoginOTP(c.Request().Context(), c.FormValue("email"))
	})
}

// OTPVerifyPost submits the six code cells.
func (h *AuthHandler) OTPVerifyPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.SubmitOTP(c.Request().Context(), otpFromForm(c))
	})
}

// ResendPost sends the current code again.
func (h *AuthHandler) ResendPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.Resend(c.Request().Context())
	})
}

// ForgotPost requests a password reset code.
func (h *AuthHandler) ForgotPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.RequestPasswordReset(c.Request().Context(), c.FormValue("email"))
	})
}

// ResetPost submits the reset code with the new password.
func (h *AuthHandler) ResetPost(c echo.Context) error {
	return h.submit(c, func(v *visitor.Visitor) (authflow.Outcome, error) {
		return v.Flow.SubmitReset(c.Request().Context(), otpFromForm(c), c.FormValue("newPassword"))
	})
}

// GoogleGet sends the browser to the API's third-party login.
func (h *AuthHandler) GoogleGet(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.site.GoogleURL)
}

// LogoutPost drops the visitor's API credentials.
func (h *AuthHandler) LogoutPost(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	v.SignOut()
	v.CloseModal()

	ctx := c.Request().Context()
	if err := events.Publish(ctx, h.bus, events.AuthTopic, v.ID, events.AuthEvent{Name: events.EventLoggedOut}); err != nil {
		middleware.FromContext(ctx).Error("Failed to publish logout", "error", err)
	}

	view.SetFlashSuccess(c, "You have been logged out.")
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/")
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) navigate(c echo.Context, move func(*authflow.Flow) error) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	return h.respond(c, v, authflow.Outcome{}, move(v.Flow))
}

func (h *AuthHandler) submit(c echo.Context, run func(*visitor.Visitor) (authflow.Outcome, error)) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	out, err := run(v)
	return h.respond(c, v, out, err)
}

// respond renders the panel for a flow result. Busy and stale results leave
// the page as it is; an action the current step does not allow re-renders
// the panel so the browser catches up with the server.
func (h *AuthHandler) respond(c echo.Context, v *visitor.Visitor, out authflow.Outcome, err error) error {
	logger := middleware.FromContext(c.Request().Context())

	switch {
	case errors.Is(err, authflow.ErrBusy), errors.Is(err, authflow.ErrStale):
		logger.Debug("Auth request dropped", "visitor_id", v.ID, "reason", err)
		if isHTMX(c) {
			return c.NoContent(http.StatusNoContent)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, authflow.ErrInvalidTransition):
		logger.Debug("Auth action not allowed", "visitor_id", v.ID, "error", err)
		if v.Flow.State().IsClosed() {
			return h.dismiss(c, v)
		}
	case err != nil:
		return err
	}

	if !isHTMX(c) {
		return h.redirectWithNotice(c, v, out)
	}

	content := h.site.Content.Content()
	nodes := []g.Node{components.AuthPanel(h.site.panelData(content, v, out))}
	if out.Close {
		nodes = append(nodes, components.SiteNav(navData(content, v), true))
	}
	return h.site.Renderer.RenderFragments(c, http.StatusOK, nodes...)
}

// redirectWithNotice carries the notice across a redirect for browsers
// without htmx. A finished flow closes the modal straight away.
func (h *AuthHandler) redirectWithNotice(c echo.Context, v *visitor.Visitor, out authflow.Outcome) error {
	if out.Notice != nil {
		if out.Notice.Kind == authflow.NoticeError {
			view.SetFlashError(c, out.Notice.Text)
		} else {
			view.SetFlashSuccess(c, out.Notice.Text)
		}
	}
	if out.Close {
		v.CloseModal()
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// otpFromForm reads the code cells. A single value is treated as a pasted
// code and spread over the cells.
func otpFromForm(c echo.Context) authflow.OTP {
	var code authflow.OTP
	form, err := c.FormParams()
	if err != nil {
		return code
	}
	cells := form["otp"]
	if len(cells) == 1 {
		return authflow.ParseOTP(cells[0])
	}
	for i := 0; i < len(cells) && i < authflow.OTPLength; i++ {
		code[i] = strings.TrimSpace(cells[i])
	}
	return code
}
