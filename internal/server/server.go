package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/learnova/internal/config"
	"github.com/nfrund/learnova/internal/events"
	"github.com/nfrund/learnova/internal/handlers"
	"github.com/nfrund/learnova/internal/landing"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/nfrund/learnova/internal/rendering"
	"github.com/nfrund/learnova/internal/storage"
	"github.com/nfrund/learnova/internal/visitor"
	"github.com/spf13/afero"
)

// Deps is everything the server needs. The app package builds it.
type Deps struct {
	Cfg         config.Provider
	Logger      *slog.Logger
	Visitors    *visitor.Store
	Content     *landing.Source
	Bus         events.Bus
	Subscribers storage.SubscriberStore
	Renderer    rendering.Renderer
	// Assets is the tree served under /static.
	Assets    afero.Fs
	GoogleURL string
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Logger   *slog.Logger
	Visitors *visitor.Store
	Content  *landing.Source
	Bus      events.Bus
	Assets   afero.Fs

	homeHandler      *handlers.HomeHandler
	authHandler      *handlers.AuthHandler
	faqHandler       *handlers.FAQHandler
	subscribeHandler *handlers.SubscribeHandler
	healthHandler    *handlers.HealthHandler
}

// New creates a Server with its middleware chain and handlers. Routes are
// added by RegisterRoutes.
func New(deps Deps) *Server {
	site := &handlers.Site{
		Content:   deps.Content,
		Renderer:  deps.Renderer,
		GoogleURL: deps.GoogleURL,
		Interval:  deps.Cfg.GetCarouselInterval(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger)

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(deps.Cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:                e,
		Cfg:              deps.Cfg,
		Logger:           deps.Logger,
		Visitors:         deps.Visitors,
		Content:          deps.Content,
		Bus:              deps.Bus,
		Assets:           deps.Assets,
		homeHandler:      handlers.NewHomeHandler(site),
		authHandler:      handlers.NewAuthHandler(site, deps.Bus),
		faqHandler:       handlers.NewFAQHandler(site),
		subscribeHandler: handlers.NewSubscribeHandler(site, deps.Subscribers, deps.Bus),
		healthHandler:    handlers.NewHealthHandler(deps.Visitors, deps.Content),
	}
}
