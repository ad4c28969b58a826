package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daniilsolovey/havaasa/internal/fetch"
	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

var errNotFound = errors.New("not found")

func newArticlesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "articles",
		Short: "List all articles in backend order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, func(ctx context.Context, q *newsportal.Queries) *fetch.Query[newsportal.ArticleList] {
				return q.Articles(ctx)
			})
		},
	}
}

func newCategoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "category <label>",
		Short: "List the articles of one category",
		Long: `List the articles of one category label.

"all" lists everything and "unclassified" lists articles whose category id has no label.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := newsportal.ParseCategory(args[0])
			if err != nil {
				return err
			}

			return runList(cmd, opts, func(ctx context.Context, q *newsportal.Queries) *fetch.Query[newsportal.ArticleList] {
				return q.ArticlesByCategory(ctx, category)
			})
		},
	}
}

func newArticleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "article <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd, opts, func(ctx context.Context, q *newsportal.Queries) *fetch.Query[*newsportal.Article] {
				return q.ArticleByID(ctx, args[0])
			})
		},
	}
}

func newFeaturedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "Show the most recently created article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd, opts, func(ctx context.Context, q *newsportal.Queries) *fetch.Query[*newsportal.Article] {
				return q.FeaturedArticle(ctx)
			})
		},
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.json {
				return json.NewEncoder(out).Encode(newsportal.Categories())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range newsportal.Categories() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", newsportal.MustIDOf(c), c, c.Title())
			}
			return tw.Flush()
		},
	}
}

func runList(cmd *cobra.Command, opts *options, open func(context.Context, *newsportal.Queries) *fetch.Query[newsportal.ArticleList]) error {
	articles, err := await(cmd, opts, open)
	if err != nil {
		return err
	}

	if opts.json {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(articles)
	}
	return printArticles(cmd.OutOrStdout(), articles)
}

func runOne(cmd *cobra.Command, opts *options, open func(context.Context, *newsportal.Queries) *fetch.Query[*newsportal.Article]) error {
	article, err := await(cmd, opts, open)
	if err != nil {
		return err
	} else if article == nil {
		return errNotFound
	}

	if opts.json {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(article)
	}
	return printArticle(cmd.OutOrStdout(), *article)
}

// await runs one query to completion, retries included.
func await[T any](cmd *cobra.Command, opts *options, open func(context.Context, *newsportal.Queries) *fetch.Query[T]) (T, error) {
	var zero T

	queries, closeFn, err := openQueries(opts)
	if err != nil {
		return zero, err
	}
	defer closeFn()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	query := open(ctx, queries)
	defer query.Close()

	state, err := query.Wait(ctx)
	if err != nil {
		return zero, err
	} else if state.Err != nil {
		return zero, fmt.Errorf("after %d retries: %w", state.RetryCount, state.Err)
	}

	return state.Data, nil
}

func printArticles(w io.Writer, articles newsportal.ArticleList) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tCREATED\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Category, a.CreatedAt, a.Title)
	}

	return tw.Flush()
}

func printArticle(w io.Writer, a newsportal.Article) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", a.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", a.Title)
	fmt.Fprintf(tw, "Category:\t%s (%s)\n", a.Category.Title(), a.Category)
	fmt.Fprintf(tw, "Created:\t%s\n", a.CreatedAt)
	if a.AuthorName != nil {
		fmt.Fprintf(tw, "Author:\t%s\n", *a.AuthorName)
	}
	if a.ImageURL != nil {
		fmt.Fprintf(tw, "Image:\t%s\n", *a.ImageURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n", a.Content)
	return err
}
