package newsportal

import (
	"fmt"
	"strings"
)

// Category is a label from the closed site taxonomy.
type Category string

const (
	Politics   Category = "politics"
	Business   Category = "business"
	Sports     Category = "sports"
	Technology Category = "technology"
	Health     Category = "health"

	// Unclassified marks articles whose category id has no label.
	Unclassified Category = "unclassified"
	// All is the filter keyword that disables category filtering.
	All Category = "all"
)

type taxon struct {
	label Category
	id    int
	title string
}

// taxonomy is configuration: ids match the backend categories table.
var taxonomy = []taxon{
	{label: Politics, id: 1, title: "Politics"},
	{label: Business, id: 2, title: "Business"},
	{label: Sports, id: 3, title: "Sports"},
	{label: Technology, id: 4, title: "Technology"},
	{label: Health, id: 5, title: "Health"},
}

// Categories returns the known labels in canonical order.
func Categories() []Category {
	out := make([]Category, len(taxonomy))
	for i, t := range taxonomy {
		out[i] = t.label
	}

	return out
}

// LabelOf maps a backend category id to its label. Unknown ids map to
// Unclassified; it never fails.
func LabelOf(categoryID int) Category {
	for _, t := range taxonomy {
		if t.id == categoryID {
			return t.label
		}
	}

	return Unclassified
}

// IDOf maps a known label to its backend id.
func IDOf(c Category) (int, error) {
	for _, t := range taxonomy {
		if t.label == c {
			return t.id, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// MustIDOf is IDOf for labels known at compile time.
func MustIDOf(c Category) int {
	id, err := IDOf(c)
	if err != nil {
		panic(err)
	}

	return id
}

// ParseCategory accepts a known label, All or Unclassified, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case All, Unclassified:
		return c, nil
	}
	if _, err := IDOf(c); err != nil {
		return "", err
	}

	return c, nil
}

// Title is the display name of the label.
func (c Category) Title() string {
	for _, t := range taxonomy {
		if t.label == c {
			return t.title
		}
	}
	if c == All {
		return "All"
	}

	return "Unclassified"
}
