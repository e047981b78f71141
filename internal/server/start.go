package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nfrund/learnova/internal/events"
)

// ShutdownTimeout bounds how long in-flight requests get to finish.
const ShutdownTimeout = 10 * time.Second

// sweepInterval is how often idle visitors are dropped.
const sweepInterval = time.Minute

// Start runs the background workers and the HTTP server until ctx is done,
// then shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.startWorkers(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting server", "addr", s.Cfg.GetServerAddr())
		if err := s.E.Start(s.Cfg.GetServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	s.Logger.Info("Shutting down server")
	if err := s.E.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) startWorkers(ctx context.Context) error {
	go s.Visitors.Run(ctx, sweepInterval)

	if err := events.StartAudit(ctx, s.Bus, s.Logger); err != nil {
		return err
	}

	if s.Cfg.GetContentWatch() {
		if err := s.Content.Watch(ctx); err != nil {
			// The page still works with the content already loaded.
			s.Logger.Error("Content watcher not started", "error", err)
		}
	}
	return nil
}
