// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Article struct {
		ID, CategoryID, Title, Content, Excerpt, ImageURL, Author, AuthorName, CreatedAt string

		Category string
	}
	Category struct {
		ID, Name, Slug string
	}
	GooseDbVersion struct {
		ID, VersionID, IsApplied, Tstamp string
	}
}{
	Article: struct {
		ID, CategoryID, Title, Content, Excerpt, ImageURL, Author, AuthorName, CreatedAt string

		Category string
	}{
		ID:         "id",
		CategoryID: "category_id",
		Title:      "title",
		Content:    "content",
		Excerpt:    "excerpt",
		ImageURL:   "image_url",
		Author:     "author",
		AuthorName: "author_name",
		CreatedAt:  "created_at",

		Category: "Category",
	},
	Category: struct {
		ID, Name, Slug string
	}{
		ID:   "id",
		Name: "name",
		Slug: "slug",
	},
	GooseDbVersion: struct {
		ID, VersionID, IsApplied, Tstamp string
	}{
		ID:        "id",
		VersionID: "version_id",
		IsApplied: "is_applied",
		Tstamp:    "tstamp",
	},
}

var Tables = struct {
	Article struct {
		Name, Alias string
	}
	Category struct {
		Name, Alias string
	}
	GooseDbVersion struct {
		Name, Alias string
	}
}{
	Article: struct {
		Name, Alias string
	}{
		Name:  "articles",
		Alias: "t",
	},
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	GooseDbVersion: struct {
		Name, Alias string
	}{
		Name:  "goose_db_version",
		Alias: "t",
	},
}

type Article struct {
	tableName struct{} `pg:"articles,alias:t,discard_unknown_columns"`

	ID         int       `pg:"id,pk"`
	CategoryID *int      `pg:"category_id"`
	Title      string    `pg:"title,use_zero"`
	Content    string    `pg:"content,use_zero"`
	Excerpt    *string   `pg:"excerpt"`
	ImageURL   *string   `pg:"image_url"`
	Author     *string   `pg:"author"`
	AuthorName *string   `pg:"author_name"`
	CreatedAt  time.Time `pg:"created_at,use_zero"`

	Category *Category `pg:"fk:category_id,rel:has-one"`
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID   int    `pg:"id,pk"`
	Name string `pg:"name,use_zero"`
	Slug string `pg:"slug,use_zero"`
}

type GooseDbVersion struct {
	tableName struct{} `pg:"goose_db_version,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	VersionID int64     `pg:"version_id,use_zero"`
	IsApplied bool      `pg:"is_applied,use_zero"`
	Tstamp    time.Time `pg:"tstamp,use_zero"`
}
