package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

// ArticleSource serves the article cache straight from Postgres.
type ArticleSource struct {
	repo *Repository
}

func NewArticleSource(repo *Repository) *ArticleSource {
	return &ArticleSource{repo: repo}
}

func (s *ArticleSource) Articles(ctx context.Context) ([]newsportal.Article, error) {
	list, err := s.repo.Articles(ctx)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "load articles")
	}

	return NewArticles(list), nil
}

// ArticleByID treats ids that are not integers as missing rows.
func (s *ArticleSource) ArticleByID(ctx context.Context, id string) (*newsportal.Article, error) {
	articleID, err := strconv.Atoi(id)
	if err != nil {
		return nil, nil
	}

	article, err := s.repo.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "load article")
	} else if article == nil {
		return nil, nil
	}
	converted := NewArticle(*article)

	return &converted, nil
}

func NewArticle(in Article) newsportal.Article {
	out := newsportal.Article{
		ID:         newsportal.ArticleID(strconv.Itoa(in.ID)),
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		ImageURL:   in.ImageURL,
		Author:     in.Author,
		AuthorName: in.AuthorName,
		CreatedAt:  in.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if in.CategoryID != nil {
		out.CategoryID = *in.CategoryID
	}

	return out
}

func NewArticles(in []Article) []newsportal.Article {
	out := make([]newsportal.Article, len(in))
	for i := range in {
		out[i] = NewArticle(in[i])
	}

	return out
}

// VerifyTaxonomy reports category rows whose id and slug disagree with the
// built-in taxonomy.
func (s *ArticleSource) VerifyTaxonomy(ctx context.Context) error {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "load categories")
	}

	if mismatches := taxonomyMismatches(categories); len(mismatches) > 0 {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig,
			"categories table disagrees with taxonomy: %s", strings.Join(mismatches, "; "))
	}

	return nil
}

func taxonomyMismatches(categories []Category) []string {
	var out []string
	for _, c := range categories {
		label := newsportal.LabelOf(c.ID)
		if label == newsportal.Unclassified {
			out = append(out, fmt.Sprintf("id %d (%s) has no label", c.ID, c.Slug))
		} else if string(label) != c.Slug {
			out = append(out, fmt.Sprintf("id %d is %q, expected %q", c.ID, c.Slug, label))
		}
	}

	return out
}
