// Package app builds the application's service container.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/learnova/internal/apiclient"
	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/config"
	"github.com/nfrund/learnova/internal/events"
	"github.com/nfrund/learnova/internal/landing"
	"github.com/nfrund/learnova/internal/logging"
	"github.com/nfrund/learnova/internal/rendering"
	"github.com/nfrund/learnova/internal/server"
	"github.com/nfrund/learnova/internal/storage"
	"github.com/nfrund/learnova/internal/visitor"
	"github.com/nfrund/learnova/web"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// defaultSubscribersFile is used in memory when SUBSCRIBERS_FILE is unset.
const defaultSubscribersFile = "subscribers.txt"

// New registers every service with a fresh injector. Services are built
// lazily on first Invoke; call Shutdown on the returned scope to release
// them.
func New(cfg config.Provider) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, provideLogger)
	do.Provide(injector, provideAPIClient)
	do.Provide(injector, provideTracing)
	do.Provide(injector, provideBus)
	do.Provide(injector, provideContent)
	do.Provide(injector, provideSubscribers)
	do.Provide(injector, provideVisitors)
	do.Provide(injector, provideRenderer)
	do.Provide(injector, provideServer)

	return injector
}

// Run builds the server from injector and serves until ctx is done. The
// container is shut down afterwards.
func Run(ctx context.Context, injector *do.RootScope) error {
	srv, err := do.Invoke[*server.Server](injector)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	runErr := srv.Start(ctx)

	if report := injector.Shutdown(); !report.Succeed {
		srv.Logger.Error("Failed to shut down services", "error", report.Error())
	}
	return runErr
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()), nil
}

func provideAPIClient(i do.Injector) (*apiclient.Client, error) {
	cfg := do.MustInvoke[config.Provider](i)
	logger := do.MustInvoke[*slog.Logger](i)

	return apiclient.New(cfg.GetAPIBaseURL(),
		apiclient.WithTimeout(cfg.GetAPITimeout()),
		apiclient.WithLogger(logger.With("component", "apiclient")),
	)
}

func provideTracing(i do.Injector) (*events.Tracing, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return events.SetupTracing(context.Background(), events.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: cfg.GetTracingServiceName(),
		ZipkinURL:   cfg.GetZipkinURL(),
	})
}

func provideBus(i do.Injector) (events.Bus, error) {
	tracing := do.MustInvoke[*events.Tracing](i)
	return events.NewWatermillBridge(events.WithTracer(tracing.Tracer)), nil
}

func provideContent(i do.Injector) (*landing.Source, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return landing.NewSource(afero.NewOsFs(), cfg.GetContentFile())
}

func provideSubscribers(i do.Injector) (storage.SubscriberStore, error) {
	cfg := do.MustInvoke[config.Provider](i)
	if path := cfg.GetSubscribersFile(); path != "" {
		return storage.NewAferoSubscribers(afero.NewOsFs(), path), nil
	}
	do.MustInvoke[*slog.Logger](i).Warn("SUBSCRIBERS_FILE is not set, newsletter sign-ups are kept in memory")
	return storage.NewAferoSubscribers(afero.NewMemMapFs(), defaultSubscribersFile), nil
}

func provideVisitors(i do.Injector) (*visitor.Store, error) {
	cfg := do.MustInvoke[config.Provider](i)
	logger := do.MustInvoke[*slog.Logger](i)
	client := do.MustInvoke[*apiclient.Client](i)
	bus := do.MustInvoke[events.Bus](i)

	newFlow := func(v *visitor.Visitor) *authflow.Flow {
		return authflow.New(client.For(v), v,
			authflow.WithDisplayDelay(cfg.GetSuccessDelay()),
			authflow.WithObserver(events.FlowObserver(bus, v.ID)),
			authflow.WithSuccessCallback(func(_ context.Context, u *apiclient.User) { v.SetUser(u) }),
			authflow.WithLogger(logger.With("visitor_id", v.ID)),
		)
	}
	return visitor.NewStore(newFlow, visitor.WithTTL(cfg.GetVisitorTTL())), nil
}

func provideRenderer(i do.Injector) (rendering.Renderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[config.Provider](i)
	client := do.MustInvoke[*apiclient.Client](i)

	s := server.New(server.Deps{
		Cfg:         cfg,
		Logger:      do.MustInvoke[*slog.Logger](i),
		Visitors:    do.MustInvoke[*visitor.Store](i),
		Content:     do.MustInvoke[*landing.Source](i),
		Bus:         do.MustInvoke[events.Bus](i),
		Subscribers: do.MustInvoke[storage.SubscriberStore](i),
		Renderer:    do.MustInvoke[rendering.Renderer](i),
		Assets:      web.Assets(cfg.GetStaticDir()),
		GoogleURL:   client.GoogleLoginURL(),
	})
	s.RegisterRoutes()
	return s, nil
}
