package newsportal

import (
	"context"
	"log/slog"
	"time"

	"github.com/daniilsolovey/havaasa/internal/fetch"
)

// Queries builds retrying, cancellable views over the cache for consumers
// that render loading and error states. Each call returns an independent
// fetch.Query; the caller owns it and must Close it or cancel ctx.
type Queries struct {
	cache      *Cache
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

func NewQueries(cache *Cache, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *Queries {
	if logger == nil {
		logger = slog.Default()
	}

	return &Queries{
		cache:      cache,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        logger,
	}
}

func (q *Queries) Articles(ctx context.Context) *fetch.Query[ArticleList] {
	return fetch.New(ctx, q.cache.Articles, options[ArticleList](q)...)
}

func (q *Queries) ArticlesByCategory(ctx context.Context, category Category) *fetch.Query[ArticleList] {
	return fetch.New(ctx, func(ctx context.Context) (ArticleList, error) {
		return q.cache.ArticlesByCategory(ctx, category)
	}, options[ArticleList](q)...)
}

func (q *Queries) ArticleByID(ctx context.Context, id string) *fetch.Query[*Article] {
	return fetch.New(ctx, func(ctx context.Context) (*Article, error) {
		return q.cache.ArticleByID(ctx, id)
	}, options[*Article](q)...)
}

func (q *Queries) FeaturedArticle(ctx context.Context) *fetch.Query[*Article] {
	return fetch.New(ctx, q.cache.FeaturedArticle, options[*Article](q)...)
}

func options[T any](q *Queries) []fetch.Option[T] {
	return []fetch.Option[T]{
		fetch.WithMaxRetries[T](q.maxRetries),
		fetch.WithRetryDelay[T](q.retryDelay),
		fetch.WithLogger[T](q.log),
	}
}
