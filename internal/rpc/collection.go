package rpc

import "github.com/daniilsolovey/havaasa/internal/newsportal"

type Articles []Article

type Categories []Category

func NewArticles(in []newsportal.Article) Articles {
	out := make(Articles, len(in))
	for i := range in {
		out[i] = NewArticle(in[i])
	}

	return out
}

func NewCategories(in []newsportal.Category) Categories {
	out := make(Categories, len(in))
	for i := range in {
		out[i] = NewCategory(in[i])
	}

	return out
}
