package rpc

import (
	"context"
	"errors"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

//go:generate zenrpc

// ArticleService provides RPC methods over the article cache.
type ArticleService struct {
	zenrpc.Service
	cache *newsportal.Cache
}

func NewArticleService(cache *newsportal.Cache) *ArticleService {
	return &ArticleService{cache: cache}
}

// List returns every article in backend order. When a refresh fails the last
// good snapshot is returned instead of the error, if there is one.
//
//zenrpc:return list of articles
//zenrpc:502 unexpected backend response
//zenrpc:503 articles are temporarily unavailable
//zenrpc:504 backend timeout
func (s *ArticleService) List(ctx context.Context) (Articles, error) {
	articles, err := s.cache.Articles(ctx)
	if err != nil {
		stale, fetchedAt := s.cache.Snapshot()
		if errors.Is(err, context.Canceled) || fetchedAt.IsZero() {
			return nil, newError(err)
		}
		articles = stale
	}

	return NewArticles(articles), nil
}

// ByID returns a single article.
//
//zenrpc:id article id as returned by List
//zenrpc:return article
//zenrpc:400 id is required
//zenrpc:404 article not found
//zenrpc:503 articles are temporarily unavailable
func (s *ArticleService) ByID(ctx context.Context, id string) (*Article, error) {
	if id == "" {
		return nil, zenrpc.NewStringError(400, "id is required")
	}

	article, err := s.cache.ArticleByID(ctx, id)
	if err != nil {
		return nil, newError(err)
	} else if article == nil {
		return nil, zenrpc.NewStringError(404, "article not found")
	}

	a := NewArticle(*article)
	return &a, nil
}

// Featured returns the most recently created article.
//
//zenrpc:return featured article
//zenrpc:404 no articles
//zenrpc:503 articles are temporarily unavailable
func (s *ArticleService) Featured(ctx context.Context) (*Article, error) {
	featured, err := s.cache.FeaturedArticle(ctx)
	if err != nil {
		return nil, newError(err)
	} else if featured == nil {
		return nil, zenrpc.NewStringError(404, "no articles")
	}

	a := NewArticle(*featured)
	return &a, nil
}

// ByCategory returns the articles of one category label. "all" disables
// filtering and "unclassified" selects articles with an unknown category id.
//
//zenrpc:category category label
//zenrpc:return list of articles
//zenrpc:400 unknown category
//zenrpc:503 articles are temporarily unavailable
func (s *ArticleService) ByCategory(ctx context.Context, category string) (Articles, error) {
	c, err := newsportal.ParseCategory(category)
	if err != nil {
		return nil, zenrpc.NewStringError(400, err.Error())
	}

	articles, err := s.cache.ArticlesByCategory(ctx, c)
	if err != nil {
		return nil, newError(err)
	}

	return NewArticles(articles), nil
}

// Categories returns the site taxonomy in canonical order.
//
//zenrpc:return list of categories
func (s *ArticleService) Categories(ctx context.Context) (Categories, error) {
	return NewCategories(newsportal.Categories()), nil
}

// newError maps classified errors to JSON-RPC error codes. Anything else is
// returned as is and reported as an internal error.
func newError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch platformerrors.GetCode(err) {
	case platformerrors.CodeInvalidInput:
		return zenrpc.NewStringError(400, err.Error())
	case platformerrors.CodeNotFound:
		return zenrpc.NewStringError(404, err.Error())
	case platformerrors.CodeSchemaFailed:
		return zenrpc.NewStringError(502, "unexpected backend response")
	case platformerrors.CodeNetwork, platformerrors.CodeUnavailable, platformerrors.CodeRateLimit, platformerrors.CodeDatabase:
		return zenrpc.NewStringError(503, "articles are temporarily unavailable")
	case platformerrors.CodeTimeout:
		return zenrpc.NewStringError(504, "backend timeout")
	}

	return err
}
