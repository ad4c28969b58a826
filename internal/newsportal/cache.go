package newsportal

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Minute

// CacheOption configures a Cache.
type CacheOption func(*Cache)

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithTTL sets how long a fetched collection is served without refetching.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(clock func() time.Time) CacheOption {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithMetrics(m *Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

// Cache holds one snapshot of the whole article collection. Derived views
// (by id, by category, featured) are computed from that snapshot so they are
// always consistent with each other.
//
// The snapshot is written only by the fetch path and always replaced whole.
// Invalidate bumps the generation; a fetch that started under an older
// generation is handed to its callers but never stored.
type Cache struct {
	source  Source
	log     *slog.Logger
	ttl     time.Duration
	clock   func() time.Time
	metrics *Metrics

	mu        sync.RWMutex
	articles  ArticleList
	fetchedAt time.Time
	gen       uint64

	group singleflight.Group
}

func NewCache(source Source, opts ...CacheOption) *Cache {
	c := &Cache{
		source: source,
		log:    slog.Default(),
		ttl:    DefaultTTL,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Articles returns the cached collection while it is younger than the TTL,
// otherwise fetches, annotates and stores a new one. A failed fetch leaves the
// previous snapshot in place.
func (c *Cache) Articles(ctx context.Context) (ArticleList, error) {
	articles, gen, fresh := c.lookup()
	if fresh {
		c.metrics.hit()
		return articles, nil
	}
	c.metrics.miss()

	return c.load(ctx, gen)
}

// Refresh fetches the collection regardless of freshness.
func (c *Cache) Refresh(ctx context.Context) error {
	_, gen, _ := c.lookup()
	_, err := c.load(ctx, gen)

	return err
}

// ArticleByID serves from the current snapshot, even a stale one, and only
// asks the source on a miss. A missing article is nil, nil.
func (c *Cache) ArticleByID(ctx context.Context, id string) (*Article, error) {
	c.mu.RLock()
	article, ok := c.articles.Find(id)
	c.mu.RUnlock()
	if ok {
		return &article, nil
	}

	fetched, err := c.source.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch article %s: %w", id, err)
	} else if fetched == nil {
		return nil, nil
	}
	list := ArticleList{*fetched}
	c.annotate(list)

	return &list[0], nil
}

// FeaturedArticle is the most recently created article, nil when there are none.
func (c *Cache) FeaturedArticle(ctx context.Context) (*Article, error) {
	articles, err := c.Articles(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}

	featured := articles.SortedByCreatedAt()[0]

	return &featured, nil
}

// ArticlesByCategory filters the collection by category. All returns the whole
// collection, Unclassified the articles without a known label. Labels outside
// the taxonomy fail before anything is fetched.
func (c *Cache) ArticlesByCategory(ctx context.Context, category Category) (ArticleList, error) {
	var categoryID int
	switch category {
	case All, Unclassified:
	default:
		id, err := IDOf(category)
		if err != nil {
			return nil, err
		}
		categoryID = id
	}

	articles, err := c.Articles(ctx)
	if err != nil {
		return nil, err
	}

	switch category {
	case All:
		return articles, nil
	case Unclassified:
		return articles.Unclassified(), nil
	default:
		return articles.FilterByCategoryID(categoryID), nil
	}
}

// Invalidate drops the snapshot so the next read refetches. Call it after
// every successful create, update or delete.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.fetchedAt = time.Time{}
	c.gen++
	c.mu.Unlock()

	c.metrics.invalidated()
	c.log.Debug("article cache invalidated")
}

// Snapshot returns the last stored collection and when it was fetched,
// regardless of age. The zero time means nothing is stored.
func (c *Cache) Snapshot() (ArticleList, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.articles), c.fetchedAt
}

func (c *Cache) lookup() (ArticleList, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fetchedAt.IsZero() || c.clock().Sub(c.fetchedAt) >= c.ttl {
		return nil, c.gen, false
	}

	return slices.Clone(c.articles), c.gen, true
}

// load shares one in-flight fetch per generation between concurrent callers.
// The shared fetch does not inherit the callers' cancellation; each caller
// stops waiting when its own context is done.
func (c *Cache) load(ctx context.Context, gen uint64) (ArticleList, error) {
	key := "articles:" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.(ArticleList)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fetch(ctx context.Context, gen uint64) (ArticleList, error) {
	c.log.Debug("fetching articles", "generation", gen)

	fetched, err := c.source.Articles(ctx)
	c.metrics.fetched(err)
	if err != nil {
		c.log.Error("failed to fetch articles", "error", err)
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	// Sources may report an empty collection as nil.
	articles := ArticleList(fetched)
	if articles == nil {
		articles = ArticleList{}
	}
	for i := range articles {
		if articles[i].ID == "" {
			return nil, FormatError(nil, "article at index %d has no id", i)
		}
	}
	c.annotate(articles)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("discarding articles fetched before invalidation", "generation", gen, "current", c.gen)
		return articles, nil
	}
	c.articles = articles
	c.fetchedAt = c.clock()
	c.metrics.stored(len(articles))

	return articles, nil
}

// annotate sets the derived Category of every article. Unknown category ids
// are a data quality problem and get logged.
func (c *Cache) annotate(articles ArticleList) {
	for i := range articles {
		articles[i].Category = LabelOf(articles[i].CategoryID)
		if articles[i].Category == Unclassified {
			c.metrics.classificationGap()
			c.log.Warn("article has unknown category id",
				"articleID", articles[i].ID,
				"categoryID", articles[i].CategoryID,
			)
		}
	}
}
