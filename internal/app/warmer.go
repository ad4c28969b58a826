package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

const defaultWarmTimeout = 30 * time.Second

// Warmer refreshes the article cache on a cron schedule so reads rarely pay
// the fetch latency.
type Warmer struct {
	cron    *cron.Cron
	cache   *newsportal.Cache
	timeout time.Duration
	log     *slog.Logger
}

// NewWarmer accepts standard five field specs and descriptors like "@every 30s".
func NewWarmer(cache *newsportal.Cache, schedule string, timeout time.Duration, logger *slog.Logger) (*Warmer, error) {
	if timeout <= 0 {
		timeout = defaultWarmTimeout
	}

	w := &Warmer{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		cache:   cache,
		timeout: timeout,
		log:     logger,
	}
	if _, err := w.cron.AddFunc(schedule, w.Warm); err != nil {
		return nil, fmt.Errorf("parse warm schedule %q: %w", schedule, err)
	}

	return w, nil
}

// Warm refreshes the cache once. Failures keep the previous snapshot.
func (w *Warmer) Warm() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.cache.Refresh(ctx); err != nil {
		w.log.Warn("cache warm failed", "error", err)
		return
	}

	articles, _ := w.cache.Snapshot()
	w.log.Debug("cache warmed", "count", len(articles), "duration", time.Since(start))
}

func (w *Warmer) Start() {
	w.cron.Start()
}

func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}
