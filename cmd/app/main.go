package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/havaasa/config"
	_ "github.com/daniilsolovey/havaasa/docs"
	"github.com/daniilsolovey/havaasa/internal/app"
	"github.com/daniilsolovey/havaasa/internal/db"
)

var (
	flConfig      = flag.String("config", "config.toml", "path to TOML configuration file")
	flDatabaseURL = flag.String("database-url", "", "postgres URL overriding [Database] (DATABASE_URL)")
	flDebug       = flag.Bool("debug", false, "enable debug mode")
	cfg           config.Config
	lg            *slog.Logger
)

// @title Havaasa News Portal API
// @version 1.0
// @description Cached article API for the news portal UI
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	flag.Parse()

	lg = newLogger(*flDebug)

	var err error
	cfg, err = config.Load(*flConfig, config.WithDatabaseURL(*flDatabaseURL))
	exitOnError(err)

	var conn *pg.DB
	if cfg.Source == config.SourcePostgres {
		conn = pg.Connect(&cfg.Database)
		defer conn.Close()
		if *flDebug {
			conn.AddQueryHook(db.NewQueryHook(lg))
		}
	}

	service, err := app.New(cfg, conn, lg)
	exitOnError(err)
	ctx := context.Background()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := service.Run(ctx, cfg.App.Port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = service.GracefulShutdown(shutdownCtx)
	if err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
