package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/spf13/afero"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/static/*", staticHandler(s.Assets))
	s.E.GET("/health", s.healthHandler.HealthGet)

	// Everything else belongs to a visitor.
	site := s.E.Group("", middleware.Visitor(s.Visitors))
	site.GET("/", s.homeHandler.HomeGet)

	auth := site.Group("/auth")
	auth.GET("/modal", s.authHandler.ModalGet)
	auth.POST("/modal/close", s.authHandler.ModalClose)
	auth.GET("/modal/slide", s.authHandler.SlideGet)
	auth.GET("/panel", s.authHandler.PanelGet)
	auth.POST("/mode", s.authHandler.ModePost)
	auth.POST("/method", s.authHandler.MethodPost)
	auth.POST("/back", s.authHandler.BackPost)
	auth.GET("/forgot", s.authHandler.ForgotGet)
	auth.GET("/google", s.authHandler.GoogleGet)
	auth.POST("/logout", s.authHandler.LogoutPost)

	auth.POST("/login", s.authHandler.LoginPost, rateLimiter)
	auth.POST("/signup", s.authHandler.SignupPost, rateLimiter)
	auth.POST("/otp/request", s.authHandler.OTPRequestPost, rateLimiter)
	auth.POST("/otp/verify", s.authHandler.OTPVerifyPost, rateLimiter)
	auth.POST("/otp/resend", s.authHandler.ResendPost, rateLimiter)
	auth.POST("/forgot", s.authHandler.ForgotPost, rateLimiter)
	auth.POST("/reset", s.authHandler.ResetPost, rateLimiter)

	site.POST("/faq/toggle/:index", s.faqHandler.TogglePost)
	site.POST("/faq/toggle-all", s.faqHandler.ToggleAllPost)
	site.POST("/subscribe", s.subscribeHandler.SubscribePost, rateLimiter)
}

// staticHandler serves the stylesheet and images from assets.
func staticHandler(assets afero.Fs) echo.HandlerFunc {
	files := http.FileServer(afero.NewHttpFs(assets).Dir("."))
	return echo.WrapHandler(http.StripPrefix("/static", files))
}
