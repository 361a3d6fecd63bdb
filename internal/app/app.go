package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"Homefeed/internal/cache"
	"Homefeed/internal/checkin"
	"Homefeed/internal/config"
	"Homefeed/internal/infrastructure/atproto"
	"Homefeed/internal/infrastructure/feed"
	"Homefeed/internal/infrastructure/github"
	"Homefeed/internal/logging"
	"Homefeed/internal/usecase"
	"Homefeed/internal/web"
)

// Application wires configs to the aggregator and the HTTP lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	resolver := atproto.NewResolver(
		cfg.DirectoryURL,
		cache.New[string](cfg.CacheTTL.Std()),
		httpClient,
		baseLogger.With("component", "resolver"),
	)
	records := atproto.NewRecordClient(httpClient)
	normalizer := checkin.NewNormalizer(records, baseLogger.With("component", "checkins"))

	aggregator := usecase.NewAggregator(usecase.AggregatorDeps{
		Feed:        feed.NewClient(cfg.FeedURL, httpClient),
		Resolver:    resolver,
		Records:     records,
		Checkins:    normalizer,
		Repos:       github.NewClient(cfg.GitHubAPIURL, httpClient),
		Handle:      cfg.Handle,
		PinnedRepos: cfg.PinnedRepos,
		CacheTTL:    cfg.CacheTTL.Std(),
		Logger:      baseLogger.With("component", "aggregator"),
	})

	server := web.NewServer(aggregator, baseLogger.With("component", "web"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.server.Addr, "handle", a.cfg.Handle)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
