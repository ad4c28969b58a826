package newsportal

import "context"

// Source is where the cache loads articles from.
type Source interface {
	// Articles returns the whole collection in backend order.
	Articles(ctx context.Context) ([]Article, error)
	// ArticleByID returns nil, nil when the article does not exist.
	ArticleByID(ctx context.Context, id string) (*Article, error)
}

// Mutator performs admin writes. token is the caller's bearer credential.
type Mutator interface {
	CreateArticle(ctx context.Context, token string, in ArticleInput) (*Article, error)
	UpdateArticle(ctx context.Context, token, id string, in ArticleInput) (*Article, error)
	DeleteArticle(ctx context.Context, token, id string) error
}
