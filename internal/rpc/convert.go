package rpc

import "github.com/daniilsolovey/havaasa/internal/newsportal"

func NewArticle(a newsportal.Article) Article {
	category := a.Category
	if category == "" {
		category = newsportal.LabelOf(a.CategoryID)
	}

	return Article{
		ID:            a.ID.String(),
		Title:         a.Title,
		Content:       a.Content,
		Excerpt:       a.Excerpt,
		ImageURL:      a.ImageURL,
		Author:        a.Author,
		AuthorName:    a.AuthorName,
		CreatedAt:     a.CreatedAt,
		CategoryID:    a.CategoryID,
		Category:      string(category),
		CategoryTitle: category.Title(),
	}
}

func NewCategory(c newsportal.Category) Category {
	return Category{
		CategoryID: newsportal.MustIDOf(c),
		Label:      string(c),
		Title:      c.Title(),
	}
}
