package newsportal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ArticleID is the opaque article identifier. Backends send either a JSON
// string or a JSON number; both decode to the string form so ids always
// compare by string.
type ArticleID string

func (id *ArticleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("article id is null")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("article id: %w", err)
		}
		*id = ArticleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("article id must be a string or a number: %w", err)
	}
	*id = ArticleID(n.String())

	return nil
}

func (id ArticleID) String() string {
	return string(id)
}

// Article is the record held in the cache. Category is derived from
// CategoryID and never sent back to the backend.
type Article struct {
	ID         ArticleID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Author     *string   `json:"author,omitempty"`
	AuthorName *string   `json:"author_name,omitempty"`
	CreatedAt  string    `json:"created_at"`
	CategoryID int       `json:"category_id"`
	Category   Category  `json:"category,omitempty"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// CreatedTime parses CreatedAt. The backend is not strict about the layout.
func (a Article) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, a.CreatedAt); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ArticleInput is the mutation payload for create and update.
type ArticleInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Excerpt    *string `json:"excerpt,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	CategoryID int     `json:"category_id"`
}

func (in ArticleInput) Validate() error {
	if in.Title == "" || in.Content == "" || in.CategoryID == 0 {
		return fmt.Errorf("%w: title, content and category_id are required", ErrInvalidArticle)
	}
	if LabelOf(in.CategoryID) == Unclassified {
		return fmt.Errorf("%w: unknown category_id %d", ErrInvalidArticle, in.CategoryID)
	}

	return nil
}
