package rest

import (
	"github.com/daniilsolovey/havaasa/internal/newsportal"
	"github.com/daniilsolovey/havaasa/internal/storage"
)

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

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

func NewArticles(list []newsportal.Article) []Article {
	return Map(list, NewArticle)
}

func NewCategory(c newsportal.Category) Category {
	return Category{
		ID:    newsportal.MustIDOf(c),
		Label: string(c),
		Title: c.Title(),
	}
}

func NewImage(u storage.Upload) Image {
	return Image{
		Key: u.Key,
		URL: u.URL,
	}
}

func (r ArticleRequest) ToModel() (newsportal.ArticleInput, error) {
	categoryID := r.CategoryID
	if categoryID == 0 && r.Category != "" {
		id, err := newsportal.IDOf(newsportal.Category(r.Category))
		if err != nil {
			return newsportal.ArticleInput{}, err
		}
		categoryID = id
	}

	in := newsportal.ArticleInput{
		Title:      r.Title,
		Content:    r.Content,
		Excerpt:    r.Excerpt,
		ImageURL:   r.ImageURL,
		CategoryID: categoryID,
	}

	return in, in.Validate()
}
