package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

func TestNewArticle(t *testing.T) {
	excerpt := "short"
	categoryID := 4
	created := time.Date(2024, 1, 14, 15, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))

	got := NewArticle(Article{
		ID:         12,
		CategoryID: &categoryID,
		Title:      "Chips",
		Content:    "body",
		Excerpt:    &excerpt,
		CreatedAt:  created,
	})

	assert.Equal(t, newsportal.ArticleID("12"), got.ID)
	assert.Equal(t, 4, got.CategoryID)
	assert.Equal(t, "2024-01-14T12:00:00Z", got.CreatedAt)
	require.NotNil(t, got.Excerpt)
	assert.Equal(t, "short", *got.Excerpt)
	assert.Nil(t, got.ImageURL)

	parsed, ok := got.CreatedTime()
	require.True(t, ok)
	assert.True(t, created.Equal(parsed))
}

func TestNewArticle_NullCategoryIsUnclassified(t *testing.T) {
	got := NewArticle(Article{ID: 1, Title: "t", Content: "c"})

	assert.Equal(t, 0, got.CategoryID)
	assert.Equal(t, newsportal.Unclassified, newsportal.LabelOf(got.CategoryID))
}

func TestNewArticles_KeepsOrder(t *testing.T) {
	got := NewArticles([]Article{{ID: 3}, {ID: 1}, {ID: 2}})

	require.Len(t, got, 3)
	assert.Equal(t, newsportal.ArticleID("3"), got[0].ID)
	assert.Equal(t, newsportal.ArticleID("1"), got[1].ID)
	assert.Equal(t, newsportal.ArticleID("2"), got[2].ID)
	assert.Empty(t, NewArticles(nil))
}

func TestTaxonomyMismatches(t *testing.T) {
	rows := []Category{
		{ID: 1, Name: "Politics", Slug: "politics"},
		{ID: 2, Name: "Business", Slug: "business"},
		{ID: 3, Name: "Sport", Slug: "sport"},
		{ID: 9, Name: "Weather", Slug: "weather"},
	}

	got := taxonomyMismatches(rows)

	require.Len(t, got, 2)
	assert.Contains(t, got[0], `id 3 is "sport", expected "sports"`)
	assert.Contains(t, got[1], "id 9 (weather) has no label")
	assert.Empty(t, taxonomyMismatches(rows[:2]))
}
