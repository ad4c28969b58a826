package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendArticles = `[
	{"id": 1, "title": "Markets rally", "content": "Stocks went up.", "category_id": 2, "created_at": "2024-01-02"},
	{"id": 2, "title": "Election day", "content": "Polls are open.", "category_id": 1, "created_at": "2024-01-01", "author_name": "Ann"}
]`

func setupBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/articles":
			_, _ = w.Write([]byte(backendArticles))
		case "/api/articles/2":
			_, _ = w.Write([]byte(`{"id": 2, "title": "Election day", "content": "Polls are open.", "category_id": 1, "author_name": "Ann"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "config.toml")
	body := fmt.Sprintf("[Backend]\nURL = %q\nTimeout = \"1s\"\n\n[Cache]\nMaxRetries = 0\n", srv.URL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestArticlesCmd(t *testing.T) {
	cfg := setupBackend(t)

	out, err := execute(t, "--config", cfg, "articles")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Markets rally")
	assert.Contains(t, out, "business")
	assert.Contains(t, out, "Election day")
}

func TestArticlesCmd_JSON(t *testing.T) {
	cfg := setupBackend(t)

	out, err := execute(t, "--config", cfg, "--json", "articles")
	require.NoError(t, err)

	var articles []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &articles))
	require.Len(t, articles, 2)
	assert.Equal(t, "politics", articles[1].Category)
}

func TestCategoryCmd(t *testing.T) {
	cfg := setupBackend(t)

	out, err := execute(t, "--config", cfg, "category", "politics")
	require.NoError(t, err)
	assert.Contains(t, out, "Election day")
	assert.NotContains(t, out, "Markets rally")

	_, err = execute(t, "--config", cfg, "category", "weather")
	require.Error(t, err)
}

func TestFeaturedCmd(t *testing.T) {
	cfg := setupBackend(t)

	out, err := execute(t, "--config", cfg, "featured")
	require.NoError(t, err)
	assert.Contains(t, out, "Markets rally")
	assert.Contains(t, out, "Business (business)")
	assert.Contains(t, out, "Stocks went up.")
}

func TestArticleCmd(t *testing.T) {
	cfg := setupBackend(t)

	out, err := execute(t, "--config", cfg, "article", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Election day")
	assert.Contains(t, out, "Ann")

	_, err = execute(t, "--config", cfg, "article", "404")
	require.ErrorIs(t, err, errNotFound)

	_, err = execute(t, "--config", cfg, "article")
	require.Error(t, err)
}

func TestCategoriesCmd(t *testing.T) {
	out, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "politics")
	assert.Contains(t, out, "Health")
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "articles")
	require.Error(t, err)
}
