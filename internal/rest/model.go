package rest

type Article struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       *string `json:"excerpt,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	Author        *string `json:"author,omitempty"`
	AuthorName    *string `json:"author_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
	CategoryID    int     `json:"category_id"`
	Category      string  `json:"category"`
	CategoryTitle string  `json:"category_title"`
}

type Category struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// ArticleRequest is the admin create and update payload. Category may be
// given by id or by label; the id wins when both are set.
type ArticleRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Excerpt    *string `json:"excerpt,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	CategoryID int     `json:"category_id,omitempty"`
	Category   string  `json:"category,omitempty"`
}

type Image struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Health struct {
	Status    string `json:"status"`
	Articles  int    `json:"articles"`
	FetchedAt string `json:"fetched_at,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
