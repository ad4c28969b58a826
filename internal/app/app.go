package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniilsolovey/havaasa/config"
	"github.com/daniilsolovey/havaasa/internal/backend"
	"github.com/daniilsolovey/havaasa/internal/db"
	"github.com/daniilsolovey/havaasa/internal/newsportal"
	"github.com/daniilsolovey/havaasa/internal/rest"
	"github.com/daniilsolovey/havaasa/internal/rpc"
	"github.com/daniilsolovey/havaasa/internal/storage"
)

const rpcPath = "/v1/rpc/"

type App struct {
	Logger *slog.Logger
	Echo   *echo.Echo
	Config config.Config
	Cache  *newsportal.Cache

	repo     *db.Repository
	articles *db.ArticleSource
	images   *storage.Images
	warmer   *Warmer
}

// New wires the article source, cache, storage and both APIs. dbConnect is
// only used when the config selects the postgres source and may be nil
// otherwise.
func New(cfg config.Config, dbConnect *pg.DB, logger *slog.Logger) (*App, error) {
	a := &App{
		Logger: logger,
		Config: cfg,
	}

	source, mutator, err := a.newSource(cfg, dbConnect)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.Cache = newsportal.NewCache(source,
		newsportal.WithLogger(logger),
		newsportal.WithTTL(cfg.Cache.TTL.Duration),
		newsportal.WithMetrics(newsportal.NewMetrics(registry)),
	)

	opts := []rest.HandlerOption{
		rest.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}
	if mutator != nil {
		opts = append(opts, rest.WithMutator(mutator))
	}

	if cfg.Storage.Endpoint != "" {
		if cfg.Auth.URL == "" {
			return nil, errors.New("image storage requires Auth.URL")
		}
		verifier, err := backend.NewAuthenticator(backend.AuthConfig{
			URL:     cfg.Auth.URL,
			APIKey:  cfg.Auth.APIKey,
			Timeout: cfg.Backend.Timeout.Duration,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init authenticator: %w", err)
		}

		a.images, err = storage.New(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			URLExpiry: cfg.Storage.URLExpiry.Duration,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init image storage: %w", err)
		}
		opts = append(opts, rest.WithImages(a.images), rest.WithTokenVerifier(verifier))
	}

	if cfg.Cache.WarmSchedule != "" {
		a.warmer, err = NewWarmer(a.Cache, cfg.Cache.WarmSchedule, cfg.Backend.Timeout.Duration, logger)
		if err != nil {
			return nil, err
		}
	}

	handler := rest.NewArticleHandler(a.Cache, logger, opts...)
	a.Echo = handler.RegisterRoutes()
	a.Echo.Any(rpcPath, echo.WrapHandler(rpc.New(logger, a.Cache)))

	return a, nil
}

func (a *App) newSource(cfg config.Config, dbConnect *pg.DB) (newsportal.Source, newsportal.Mutator, error) {
	var client *backend.Client
	if cfg.Backend.URL != "" {
		var err error
		client, err = backend.NewClient(backend.Config{
			URL:     cfg.Backend.URL,
			Timeout: cfg.Backend.Timeout.Duration,
			Token:   cfg.Backend.Token,
		}, a.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init backend client: %w", err)
		}
	}

	switch cfg.Source {
	case config.SourcePostgres:
		if dbConnect == nil {
			return nil, nil, errors.New("postgres source requires a database connection")
		}
		a.repo = db.New(dbConnect)
		a.articles = db.NewArticleSource(a.repo)
		if client == nil {
			a.Logger.Info("admin routes disabled, Backend.URL is not set")
			return a.articles, nil, nil
		}
		return a.articles, client, nil
	default:
		if client == nil {
			return nil, nil, errors.New("rest source requires Backend.URL")
		}
		return client, client, nil
	}
}

// Run checks dependencies, warms the cache and serves HTTP until shutdown. A
// graceful shutdown returns nil.
func (a *App) Run(ctx context.Context, port int) error {
	if err := a.prepare(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, port)
	a.Logger.Info("starting server", "addr", addr, "source", a.Config.Source)

	if err := a.Echo.Start(addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *App) prepare(ctx context.Context) error {
	if a.repo != nil {
		if err := a.repo.Ping(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := a.articles.VerifyTaxonomy(ctx); err != nil {
			a.Logger.Warn("category taxonomy mismatch", "error", err)
		}
	}

	if a.images != nil {
		if err := a.images.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure image bucket: %w", err)
		}
	}

	if err := a.Cache.Refresh(ctx); err != nil {
		a.Logger.Warn("initial cache warm failed", "error", err)
	}

	if a.warmer != nil {
		a.warmer.Start()
	}

	return nil
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	if a.warmer != nil {
		a.warmer.Stop()
	}

	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
