package newsportal

import (
	"slices"
)

// ArticleList is an ordered collection as returned by the backend.
type ArticleList []Article

// Find returns the article whose id equals id by string form.
func (ll ArticleList) Find(id string) (Article, bool) {
	for i := range ll {
		if ll[i].ID.String() == id {
			return ll[i], true
		}
	}

	return Article{}, false
}

// FilterByCategoryID keeps articles with the given backend category id.
func (ll ArticleList) FilterByCategoryID(categoryID int) ArticleList {
	out := make(ArticleList, 0, len(ll))
	for i := range ll {
		if ll[i].CategoryID == categoryID {
			out = append(out, ll[i])
		}
	}

	return out
}

// Unclassified keeps articles whose category id has no label.
func (ll ArticleList) Unclassified() ArticleList {
	out := make(ArticleList, 0)
	for i := range ll {
		if LabelOf(ll[i].CategoryID) == Unclassified {
			out = append(out, ll[i])
		}
	}

	return out
}

// SortedByCreatedAt returns a copy ordered newest first. Articles with an
// unparsable timestamp go last, ties keep backend order.
func (ll ArticleList) SortedByCreatedAt() ArticleList {
	out := slices.Clone(ll)
	slices.SortStableFunc(out, func(a, b Article) int {
		at, aok := a.CreatedTime()
		bt, bok := b.CreatedTime()
		switch {
		case aok && bok:
			return bt.Compare(at)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})

	return out
}
