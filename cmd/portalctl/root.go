package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-pg/pg/v10"
	"github.com/spf13/cobra"

	"github.com/daniilsolovey/havaasa/config"
	"github.com/daniilsolovey/havaasa/internal/backend"
	"github.com/daniilsolovey/havaasa/internal/db"
	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

type options struct {
	config      string
	databaseURL string
	json        bool
	debug       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "portalctl",
		Short:        "Query the news portal article source",
		Long:         "portalctl reads articles through the same cache and retry policy as the portal server.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.config, "config", "config.toml", "path to TOML configuration file")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres URL overriding [Database]")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newArticlesCmd(opts),
		newArticleCmd(opts),
		newFeaturedCmd(opts),
		newCategoryCmd(opts),
		newCategoriesCmd(opts),
	)

	return root
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// openQueries builds the configured source behind a cache. The returned func
// releases the database connection, if any.
func openQueries(opts *options) (*newsportal.Queries, func(), error) {
	cfg, err := config.Load(opts.config, config.WithDatabaseURL(opts.databaseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(opts.debug)

	var (
		source  newsportal.Source
		closeFn = func() {}
	)
	switch cfg.Source {
	case config.SourcePostgres:
		conn := pg.Connect(&cfg.Database)
		closeFn = func() { _ = conn.Close() }
		source = db.NewArticleSource(db.New(conn))
	default:
		client, err := backend.NewClient(backend.Config{
			URL:     cfg.Backend.URL,
			Timeout: cfg.Backend.Timeout.Duration,
			Token:   cfg.Backend.Token,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		source = client
	}

	cache := newsportal.NewCache(source,
		newsportal.WithLogger(logger),
		newsportal.WithTTL(cfg.Cache.TTL.Duration),
	)

	return newsportal.NewQueries(cache, *cfg.Cache.MaxRetries, cfg.Cache.RetryDelay.Duration, logger), closeFn, nil
}
