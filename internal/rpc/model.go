package rpc

type Article struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       *string `json:"excerpt,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	Author        *string `json:"author,omitempty"`
	AuthorName    *string `json:"authorName,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	CategoryID    int     `json:"categoryId"`
	Category      string  `json:"category"`
	CategoryTitle string  `json:"categoryTitle"`
}

type Category struct {
	CategoryID int    `json:"categoryId"`
	Label      string `json:"label"`
	Title      string `json:"title"`
}
