package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/apiclient"
	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/events"
	"github.com/nfrund/learnova/internal/handlers"
	"github.com/nfrund/learnova/internal/landing"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/nfrund/learnova/internal/rendering"
	"github.com/nfrund/learnova/internal/storage"
	"github.com/nfrund/learnova/internal/testutils"
	"github.com/nfrund/learnova/internal/visitor"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiCall struct {
	Path string
	Body map[string]string
	Auth string
}

// fakeAPI stands in for the remote auth API. Unconfigured paths answer
// {"success":true}.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	replies map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Path: r.URL.Path, Body: body, Auth: r.Header.Get("Authorization")})
	reply, ok := f.replies[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		reply = `{"success":true}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(reply))
}

func (f *fakeAPI) reply(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[path] = body
}

func (f *fakeAPI) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Path
	}
	return out
}

func (f *fakeAPI) last() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []events.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Topic
	}
	return out
}

// browser drives the app like a single browser, replaying the cookies it
// was given.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (b *browser) send(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.send(http.MethodGet, target, nil, false)
}

func (b *browser) hxGet(target string) *httptest.ResponseRecorder {
	return b.send(http.MethodGet, target, nil, true)
}

func (b *browser) hxPost(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.send(http.MethodPost, target, form, true)
}

type harness struct {
	api      *fakeAPI
	bus      *recordingPublisher
	visitors *visitor.Store
	browser  *browser
}

func setup(t *testing.T) *harness {
	t.Helper()

	api := &fakeAPI{replies: map[string]string{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	visitors := visitor.NewStore(func(v *visitor.Visitor) *authflow.Flow {
		return authflow.New(client.For(v), v,
			authflow.WithDisplayDelay(time.Second),
			authflow.WithSuccessCallback(func(_ context.Context, u *apiclient.User) { v.SetUser(u) }),
		)
	})
	bus := &recordingPublisher{}
	site := &handlers.Site{
		Content:   landing.Static(landing.Default()),
		Renderer:  rendering.NewUniversalRenderer(),
		GoogleURL: client.GoogleLoginURL(),
		Interval:  landing.DefaultCarouselInterval,
	}

	e := echo.New()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testutils.TestSessionSecret))))
	e.Use(middleware.Visitor(visitors))

	home := handlers.NewHomeHandler(site)
	auth := handlers.NewAuthHandler(site, bus)
	faq := handlers.NewFAQHandler(site)
	subscribe := handlers.NewSubscribeHandler(site, storage.NewAferoSubscribers(afero.NewMemMapFs(), "subscribers.txt"), bus)
	health := handlers.NewHealthHandler(visitors, landing.Static(landing.Default()))

	e.GET("/", home.HomeGet)
	e.GET("/auth/modal", auth.ModalGet)
	e.POST("/auth/modal/close", auth.ModalClose)
	e.GET("/auth/modal/slide", auth.SlideGet)
	e.GET("/auth/panel", auth.PanelGet)
	e.POST("/auth/mode", auth.ModePost)
	e.POST("/auth/method", auth.MethodPost)
	e.POST("/auth/login", auth.LoginPost)
	e.POST("/auth/signup", auth.SignupPost)
	e.POST("/auth/otp/request", auth.OTPRequestPost)
	e.POST("/auth/otp/verify", auth.OTPVerifyPost)
	e.POST("/auth/otp/resend", auth.ResendPost)
	e.GET("/auth/forgot", auth.ForgotGet)
	e.POST("/auth/forgot", auth.ForgotPost)
	e.POST("/auth/reset", auth.ResetPost)
	e.POST("/auth/back", auth.BackPost)
	e.GET("/auth/google", auth.GoogleGet)
	e.POST("/auth/logout", auth.LogoutPost)
	e.POST("/faq/toggle/:index", faq.TogglePost)
	e.POST("/faq/toggle-all", faq.ToggleAllPost)
	e.POST("/subscribe", subscribe.SubscribePost)
	e.GET("/health", health.HealthGet)

	return &harness{
		api:      api,
		bus:      bus,
		visitors: visitors,
		browser:  &browser{t: t, e: e, cookies: map[string]*http.Cookie{}},
	}
}

func TestHomeGet(t *testing.T) {
	h := setup(t)

	rec := h.browser.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Home | LearnOva</title>")
	assert.Contains(t, body, `id="site-nav"`)
	assert.Contains(t, body, "Get Started")
	assert.Contains(t, body, `id="Features"`)
	assert.Contains(t, body, "Frequently Asked Questions")
	assert.Contains(t, body, `id="auth-modal-root"`)
	assert.NotContains(t, body, `id="auth-modal"`)
	assert.Contains(t, h.browser.cookies, "learnova-visitor")
}

func TestModal_OpenReloadAndClose(t *testing.T) {
	h := setup(t)

	rec := h.browser.hxGet("/auth/modal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="auth-modal"`)
	assert.Contains(t, rec.Body.String(), "Student login")
	assert.Contains(t, rec.Body.String(), `hx-trigger="every 4000ms"`)

	rec = h.browser.get("/")
	assert.Contains(t, rec.Body.String(), `id="auth-modal"`, "a reload keeps the modal open")

	rec = h.browser.hxPost("/auth/modal/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#auth-modal-root", rec.Header().Get("HX-Retarget"))
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="true"`)
	assert.NotContains(t, rec.Body.String(), `id="auth-panel"`)

	rec = h.browser.hxGet("/auth/modal/slide")
	assert.Equal(t, 286, rec.Code, "polling stops once the modal is closed")
}

func TestModal_SlideAdvancesAndResetsOnOpen(t *testing.T) {
	h := setup(t)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxGet("/auth/modal/slide")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "translateX(-100%)")

	h.browser.hxGet("/auth/modal/slide")
	rec = h.browser.hxGet("/auth/modal")
	assert.Contains(t, rec.Body.String(), "translateX(-0%)", "reopening starts at the first slide")
}

func TestLogin_SuccessClosesAndUpdatesNav(t *testing.T) {
	h := setup(t)
	h.api.reply(apiclient.PathLogin, `{"success":true,"token":"tok-1","user":{"id":"u1","name":"ada lovelace","isVerified":true}}`)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxPost("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Login successful!")
	assert.Contains(t, body, `hx-trigger="load delay:1000ms"`)
	assert.Contains(t, body, "Hi, Ada")
	assert.Contains(t, body, `hx-swap-oob="true"`)

	h.browser.hxPost("/auth/modal/close", nil)
	rec = h.browser.get("/")
	assert.Contains(t, rec.Body.String(), "Log out")
	assert.NotContains(t, rec.Body.String(), `id="auth-modal"`)

	// The stored token is sent with later API calls.
	h.browser.hxGet("/auth/modal")
	h.browser.hxGet("/auth/forgot")
	h.browser.hxPost("/auth/forgot", url.Values{"email": {"ada@example.com"}})
	assert.Equal(t, "Bearer tok-1", h.api.last().Auth)
}

func TestLogin_ValidationErrorMakesNoCall(t *testing.T) {
	h := setup(t)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxPost("/auth/login", url.Values{"email": {""}, "password": {""}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is required.")
	assert.Contains(t, rec.Body.String(), "Password is required.")
	assert.Empty(t, h.api.paths())
}

func TestLogin_UnverifiedAccountMovesToVerify(t *testing.T) {
	h := setup(t)
	h.api.reply(apiclient.PathLogin, `{"success":true,"token":"tok","user":{"isVerified":false}}`)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxPost("/auth/login", url.Values{"email": {"new@example.com"}, "password": {"secret"}})

	body := rec.Body.String()
	assert.Contains(t, body, "Verify your email")
	assert.Contains(t, body, `hx-post="/auth/otp/verify"`)
	assert.Equal(t, []string{apiclient.PathLogin, apiclient.PathSendVerifyOTP}, h.api.paths())
	assert.Equal(t, "new@example.com", h.api.last().Body["email"])
}

func TestOTPLogin_CollectsCells(t *testing.T) {
	h := setup(t)
	h.api.reply(apiclient.PathOTPLogin, `{"success":true,"token":"tok-otp"}`)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxPost("/auth/method", url.Values{"method": {"otp"}})
	assert.Contains(t, rec.Body.String(), `hx-post="/auth/otp/request"`)

	rec = h.browser.hxPost("/auth/otp/request", url.Values{"email": {"ada@example.com"}})
	assert.Contains(t, rec.Body.String(), "Enter your login code")

	rec = h.browser.hxPost("/auth/otp/verify", url.Values{"otp": {"1", "2", "3"}})
	assert.Contains(t, rec.Body.String(), "Please enter the complete 6-digit code.")
	assert.Equal(t, []string{apiclient.PathSendLoginOTP}, h.api.paths(), "an incomplete code is not sent")

	rec = h.browser.hxPost("/auth/otp/verify", url.Values{"otp": {"1", "2", "3", "4", "5", "6"}})
	assert.Contains(t, rec.Body.String(), "modal__closer")
	call := h.api.last()
	assert.Equal(t, apiclient.PathOTPLogin, call.Path)
	assert.Equal(t, "123456", call.Body["otp"])
	assert.Equal(t, "ada@example.com", call.Body["email"])
}

func TestForgotPassword_Flow(t *testing.T) {
	h := setup(t)
	h.browser.hxGet("/auth/modal")

	rec := h.browser.hxGet("/auth/forgot")
	assert.Contains(t, rec.Body.String(), "Forgot password")

	rec = h.browser.hxPost("/auth/forgot", url.Values{"email": {"user@example.com"}})
	assert.Contains(t, rec.Body.String(), "Reset password")
	call := h.api.last()
	assert.Equal(t, apiclient.PathSendResetOTP, call.Path)
	assert.Equal(t, "user@example.com", call.Body["email"])

	rec = h.browser.hxPost("/auth/reset", url.Values{"otp": {"654321"}, "newPassword": {"Str0ng!pw"}})
	call = h.api.last()
	assert.Equal(t, apiclient.PathResetPassword, call.Path)
	assert.Equal(t, "654321", call.Body["otp"], "a pasted code is spread over the cells")
	assert.Equal(t, "Str0ng!pw", call.Body["newPassword"])
	body := rec.Body.String()
	assert.Contains(t, body, "Password reset successful.")
	assert.Contains(t, body, `hx-trigger="load delay:1000ms"`)
	assert.NotContains(t, body, `hx-post="/auth/login"`, "the login form waits for the display delay")

	rec = h.browser.hxGet("/auth/panel")
	assert.Contains(t, rec.Body.String(), `hx-post="/auth/login"`, "a completed reset returns to the login form")
}

func TestVerifySignup_HoldsNoticeThenShowsLogin(t *testing.T) {
	h := setup(t)
	h.api.reply(apiclient.PathLogin, `{"success":true,"token":"tok","user":{"isVerified":false}}`)
	h.browser.hxGet("/auth/modal")
	h.browser.hxPost("/auth/login", url.Values{"email": {"new@example.com"}, "password": {"secret"}})

	rec := h.browser.hxPost("/auth/otp/verify", url.Values{"otp": {"123456"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, apiclient.PathVerifyAccount, h.api.last().Path)
	assert.Contains(t, body, "Email verified! You can now log in.")
	assert.Contains(t, body, `hx-get="/auth/panel"`)
	assert.Contains(t, body, `hx-trigger="load delay:1000ms"`)
	assert.NotContains(t, body, `hx-post="/auth/login"`)
	assert.NotContains(t, body, "modal__closer", "verifying an account does not close the modal")

	rec = h.browser.hxGet("/auth/panel")
	body = rec.Body.String()
	assert.Contains(t, body, `hx-post="/auth/login"`)
	assert.Contains(t, body, `value="new@example.com"`, "the verified email is kept")
	assert.NotContains(t, body, "Email verified!", "the notice is not repeated")
}

func TestPanelGet_ClosedModalIsDismissed(t *testing.T) {
	h := setup(t)

	rec := h.browser.hxGet("/auth/panel")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#auth-modal-root", rec.Header().Get("HX-Retarget"))
}

func TestBack_FromForgotPassword(t *testing.T) {
	h := setup(t)
	h.browser.hxGet("/auth/modal")
	h.browser.hxGet("/auth/forgot")

	rec := h.browser.hxPost("/auth/back", nil)

	assert.Contains(t, rec.Body.String(), `hx-post="/auth/login"`)
}

func TestAction_AfterCloseDismissesModal(t *testing.T) {
	h := setup(t)
	h.browser.hxGet("/auth/modal")
	h.browser.hxPost("/auth/modal/close", nil)

	rec := h.browser.hxPost("/auth/mode", url.Values{"mode": {"signup"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#auth-modal-root", rec.Header().Get("HX-Retarget"))
}

func TestLogin_WithoutHTMXRedirectsWithFlash(t *testing.T) {
	h := setup(t)
	h.browser.get("/auth/modal")

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret"}}
	rec := h.browser.send(http.MethodPost, "/auth/login", form, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = h.browser.get("/")
	assert.Contains(t, rec.Body.String(), "Login successful!")
	assert.NotContains(t, rec.Body.String(), `id="auth-modal"`)
}

func TestLogout(t *testing.T) {
	h := setup(t)
	h.api.reply(apiclient.PathLogin, `{"success":true,"token":"tok","user":{"name":"ada","isVerified":true}}`)
	h.browser.hxGet("/auth/modal")
	h.browser.hxPost("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})

	rec := h.browser.hxPost("/auth/logout", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
	assert.Contains(t, h.bus.topics(), events.AuthTopic.Name())

	body := h.browser.get("/").Body.String()
	assert.Contains(t, body, "You have been logged out.")
	assert.Contains(t, body, "Get Started")
}

func TestGoogleRedirect(t *testing.T) {
	h := setup(t)

	rec := h.browser.get("/auth/google")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasSuffix(rec.Header().Get(echo.HeaderLocation), apiclient.PathGoogle))
}

func TestFAQ_ExpandAllThenClick(t *testing.T) {
	h := setup(t)
	items := len(landing.Default().FAQs)
	expanded := func(body string) int { return strings.Count(body, `aria-expanded="true"`) }

	rec := h.browser.hxPost("/faq/toggle-all", nil)
	assert.Equal(t, items, expanded(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), "Collapse all")

	rec = h.browser.hxPost("/faq/toggle/1", nil)
	assert.Equal(t, 0, expanded(rec.Body.String()), "a click while all are open collapses everything")

	rec = h.browser.hxPost("/faq/toggle/1", nil)
	assert.Equal(t, 1, expanded(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), `aria-controls="faq-answer-1"`)

	rec = h.browser.hxPost("/faq/toggle/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribe(t *testing.T) {
	h := setup(t)

	rec := h.browser.hxPost("/subscribe", url.Values{"email": {"not-an-email"}})
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address.")
	assert.Contains(t, rec.Body.String(), `value="not-an-email"`)

	rec = h.browser.hxPost("/subscribe", url.Values{"email": {"Reader@Example.com"}})
	assert.Contains(t, rec.Body.String(), "Thanks for subscribing!")

	rec = h.browser.hxPost("/subscribe", url.Values{"email": {"reader@example.com"}})
	assert.Contains(t, rec.Body.String(), "already subscribed")

	assert.Equal(t, []string{events.NewsletterTopic.Name(), events.NewsletterTopic.Name()}, h.bus.topics())
}

func TestHealth(t *testing.T) {
	h := setup(t)
	h.browser.get("/")

	rec := h.browser.get("/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Visitors)
}
