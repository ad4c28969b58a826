package newsportal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}

// mockSource is a manual stub implementation of Source.
type mockSource struct {
	articlesFunc    func(ctx context.Context) ([]Article, error)
	articleByIDFunc func(ctx context.Context, id string) (*Article, error)

	articleCalls atomic.Int32
	byIDCalls    atomic.Int32
}

func (m *mockSource) Articles(ctx context.Context) ([]Article, error) {
	m.articleCalls.Add(1)
	if m.articlesFunc != nil {
		return m.articlesFunc(ctx)
	}
	return nil, nil
}

func (m *mockSource) ArticleByID(ctx context.Context, id string) (*Article, error) {
	m.byIDCalls.Add(1)
	if m.articleByIDFunc != nil {
		return m.articleByIDFunc(ctx, id)
	}
	return nil, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scenarioArticles is the two-article backend response used across tests.
func scenarioArticles() []Article {
	return []Article{
		{ID: "1", Title: "Markets rally", CategoryID: 2, CreatedAt: "2024-01-02"},
		{ID: "2", Title: "Election day", CategoryID: 1, CreatedAt: "2024-01-01"},
	}
}

func mixedArticles() []Article {
	return []Article{
		{ID: "10", CategoryID: 1, CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: "11", CategoryID: 3, CreatedAt: "2024-03-02T10:00:00Z"},
		{ID: "12", CategoryID: 99, CreatedAt: "2024-03-03T10:00:00Z"},
		{ID: "13", CategoryID: 4, CreatedAt: "2024-03-04T10:00:00Z"},
		{ID: "14", CategoryID: 1, CreatedAt: "not a date"},
		{ID: "15", CategoryID: 5, CreatedAt: "2024-02-28T10:00:00Z"},
		{ID: "16", CategoryID: 2, CreatedAt: "2024-02-27T10:00:00Z"},
		{ID: "17", CategoryID: 0, CreatedAt: "2024-02-26T10:00:00Z"},
	}
}

func newTestCache(source Source, clock *fakeClock, opts ...CacheOption) *Cache {
	opts = append([]CacheOption{
		WithLogger(noOpLogger()),
		WithClock(clock.Now),
		WithTTL(time.Minute),
	}, opts...)
	return NewCache(source, opts...)
}

func TestCache_Articles_IdempotentWithinTTL(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return scenarioArticles(), nil
	}}
	clock := newFakeClock()
	cache := newTestCache(source, clock)

	first, err := cache.Articles(ctx)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	second, err := cache.Articles(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), source.articleCalls.Load())
	assert.Equal(t, first, second)
}

func TestCache_Articles_TTLBoundary(t *testing.T) {
	tests := []struct {
		name          string
		elapsed       time.Duration
		expectedCalls int32
	}{
		{name: "just before expiry serves cache", elapsed: time.Minute - time.Millisecond, expectedCalls: 1},
		{name: "exactly at expiry refetches", elapsed: time.Minute, expectedCalls: 2},
		{name: "just after expiry refetches", elapsed: time.Minute + time.Millisecond, expectedCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
				return scenarioArticles(), nil
			}}
			clock := newFakeClock()
			cache := newTestCache(source, clock)

			_, err := cache.Articles(ctx)
			require.NoError(t, err)
			clock.Advance(tt.elapsed)
			_, err = cache.Articles(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedCalls, source.articleCalls.Load())
		})
	}
}

func TestCache_Invalidate_ForcesRefetch(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return scenarioArticles(), nil
	}}
	clock := newFakeClock()
	cache := newTestCache(source, clock)

	_, err := cache.Articles(ctx)
	require.NoError(t, err)

	cache.Invalidate()
	snapshot, fetchedAt := cache.Snapshot()
	assert.Empty(t, snapshot)
	assert.True(t, fetchedAt.IsZero())

	_, err = cache.Articles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.articleCalls.Load())
}

func TestCache_Articles_AnnotatesAndKeepsOrder(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return mixedArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock())

	articles, err := cache.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, len(mixedArticles()))

	for i, article := range articles {
		assert.Equal(t, mixedArticles()[i].ID, article.ID, "backend order must be kept")
		assert.Equal(t, LabelOf(article.CategoryID), article.Category)
	}
	assert.Equal(t, Unclassified, articles[2].Category)
	assert.Equal(t, Politics, articles[0].Category)
}

func TestCache_Articles_ReturnsCopies(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return scenarioArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock())

	first, err := cache.Articles(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated by caller"

	second, err := cache.Articles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Markets rally", second[0].Title)
}

func TestCache_Articles_FailureKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	fail := false
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		if fail {
			return nil, platformerrors.New(platformerrors.CodeNetwork, "connection reset")
		}
		return scenarioArticles(), nil
	}}
	clock := newFakeClock()
	cache := newTestCache(source, clock)

	_, err := cache.Articles(ctx)
	require.NoError(t, err)

	fail = true
	clock.Advance(2 * time.Minute)
	_, err = cache.Articles(ctx)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNetwork, platformerrors.GetCode(err))

	snapshot, fetchedAt := cache.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.False(t, fetchedAt.IsZero())

	article, err := cache.ArticleByID(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, int32(0), source.byIDCalls.Load(), "stale snapshot still answers by-id lookups")
}

func TestCache_Articles_FirstFailureHasNoData(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	cache := newTestCache(source, newFakeClock())

	articles, err := cache.Articles(context.Background())
	require.Error(t, err)
	assert.Nil(t, articles)

	snapshot, fetchedAt := cache.Snapshot()
	assert.Empty(t, snapshot)
	assert.True(t, fetchedAt.IsZero())
}

func TestCache_Articles_MissingIDIsFormatError(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return []Article{{ID: "1", CategoryID: 1}, {Title: "no id", CategoryID: 2}}, nil
	}}
	cache := newTestCache(source, newFakeClock())

	_, err := cache.Articles(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err))

	_, fetchedAt := cache.Snapshot()
	assert.True(t, fetchedAt.IsZero())
}

func TestCache_Articles_EmptyCollectionIsCached(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return nil, nil
	}}
	cache := newTestCache(source, newFakeClock())

	for range 3 {
		articles, err := cache.Articles(context.Background())
		require.NoError(t, err)
		assert.Empty(t, articles)
	}
	assert.Equal(t, int32(1), source.articleCalls.Load())
}

func TestCache_Articles_ConcurrentCallersShareFetch(t *testing.T) {
	release := make(chan struct{})
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		<-release
		return scenarioArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]ArticleList, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles, err := cache.Articles(context.Background())
			assert.NoError(t, err)
			results[i] = articles
		}()
	}

	require.Eventually(t, func() bool {
		return source.articleCalls.Load() == 1
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), source.articleCalls.Load())
	for _, articles := range results {
		assert.Len(t, articles, 2)
	}
}

func TestCache_Invalidate_DuringFetchDoesNotStore(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return []Article{{ID: "old", CategoryID: 1}}, nil
		}
		return []Article{{ID: "new", CategoryID: 1}}, nil
	}}
	cache := newTestCache(source, newFakeClock())

	done := make(chan ArticleList)
	go func() {
		articles, err := cache.Articles(context.Background())
		assert.NoError(t, err)
		done <- articles
	}()

	<-started
	cache.Invalidate()
	close(release)

	stale := <-done
	require.Len(t, stale, 1)
	assert.Equal(t, ArticleID("old"), stale[0].ID)

	snapshot, fetchedAt := cache.Snapshot()
	assert.Empty(t, snapshot)
	assert.True(t, fetchedAt.IsZero())

	fresh, err := cache.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, ArticleID("new"), fresh[0].ID)
}

func TestCache_Articles_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		<-release
		return scenarioArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Articles(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		_, fetchedAt := cache.Snapshot()
		return !fetchedAt.IsZero()
	}, time.Second, time.Millisecond, "shared fetch completes for other callers")
}

func TestCache_Refresh_IgnoresFreshness(t *testing.T) {
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return scenarioArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock())

	require.NoError(t, cache.Refresh(context.Background()))
	require.NoError(t, cache.Refresh(context.Background()))
	_, err := cache.Articles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), source.articleCalls.Load())
}

func TestCache_ArticleByID(t *testing.T) {
	ctx := context.Background()

	t.Run("HitServedFromCacheByStringForm", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return scenarioArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())
		_, err := cache.Articles(ctx)
		require.NoError(t, err)

		article, err := cache.ArticleByID(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, article)
		assert.Equal(t, "Markets rally", article.Title)
		assert.Equal(t, Business, article.Category)
		assert.Equal(t, int32(0), source.byIDCalls.Load())
	})

	t.Run("MissFallsBackToSource", func(t *testing.T) {
		source := &mockSource{articleByIDFunc: func(ctx context.Context, id string) (*Article, error) {
			assert.Equal(t, "42", id)
			return &Article{ID: "42", CategoryID: 3}, nil
		}}
		cache := newTestCache(source, newFakeClock())

		article, err := cache.ArticleByID(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, article)
		assert.Equal(t, Sports, article.Category)
		assert.Equal(t, int32(1), source.byIDCalls.Load())

		snapshot, _ := cache.Snapshot()
		assert.Empty(t, snapshot, "by-id fetches are not merged into the snapshot")
	})

	t.Run("NotFoundIsNotAnError", func(t *testing.T) {
		cache := newTestCache(&mockSource{}, newFakeClock())

		article, err := cache.ArticleByID(ctx, "404")
		require.NoError(t, err)
		assert.Nil(t, article)
	})

	t.Run("SourceErrorPropagates", func(t *testing.T) {
		source := &mockSource{articleByIDFunc: func(ctx context.Context, id string) (*Article, error) {
			return nil, platformerrors.New(platformerrors.CodeUnavailable, "503")
		}}
		cache := newTestCache(source, newFakeClock())

		article, err := cache.ArticleByID(ctx, "7")
		require.Error(t, err)
		assert.Nil(t, article)
		assert.Equal(t, platformerrors.CodeUnavailable, platformerrors.GetCode(err))
	})
}

func TestCache_FeaturedArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("MostRecentArticle", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return scenarioArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())

		featured, err := cache.FeaturedArticle(ctx)
		require.NoError(t, err)
		require.NotNil(t, featured)
		assert.Equal(t, ArticleID("1"), featured.ID)
	})

	t.Run("IgnoresBackendOrder", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return mixedArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())

		featured, err := cache.FeaturedArticle(ctx)
		require.NoError(t, err)
		require.NotNil(t, featured)
		assert.Equal(t, ArticleID("13"), featured.ID)

		articles, err := cache.Articles(ctx)
		require.NoError(t, err)
		assert.Equal(t, ArticleID("10"), articles[0].ID, "cache order is untouched")
	})

	t.Run("EmptyCollection", func(t *testing.T) {
		cache := newTestCache(&mockSource{}, newFakeClock())

		featured, err := cache.FeaturedArticle(ctx)
		require.NoError(t, err)
		assert.Nil(t, featured)
	})
}

func TestCache_ArticlesByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("PoliticsScenario", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return scenarioArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())

		politics, err := cache.ArticlesByCategory(ctx, Politics)
		require.NoError(t, err)
		require.Len(t, politics, 1)
		assert.Equal(t, ArticleID("2"), politics[0].ID)
	})

	t.Run("AllBypassesFilter", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return mixedArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())

		all, err := cache.ArticlesByCategory(ctx, All)
		require.NoError(t, err)
		assert.Len(t, all, len(mixedArticles()))
	})

	t.Run("UnknownCategoryFailsFast", func(t *testing.T) {
		source := &mockSource{}
		cache := newTestCache(source, newFakeClock())

		_, err := cache.ArticlesByCategory(ctx, Category("weather"))
		require.ErrorIs(t, err, ErrUnknownCategory)
		assert.Equal(t, int32(0), source.articleCalls.Load())
	})

	t.Run("PartitionAccountsForEveryArticleOnce", func(t *testing.T) {
		source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
			return mixedArticles(), nil
		}}
		cache := newTestCache(source, newFakeClock())

		all, err := cache.Articles(ctx)
		require.NoError(t, err)

		seen := make(map[ArticleID]int)
		for _, category := range append(Categories(), Unclassified) {
			subset, err := cache.ArticlesByCategory(ctx, category)
			require.NoError(t, err)
			for _, article := range subset {
				if category != Unclassified {
					assert.Equal(t, MustIDOf(category), article.CategoryID)
				}
				seen[article.ID]++
			}
		}

		require.Len(t, seen, len(all))
		for _, article := range all {
			assert.Equal(t, 1, seen[article.ID], "article %s", article.ID)
		}
		assert.Equal(t, int32(1), source.articleCalls.Load(), "derived views share one fetch")
	})
}

func TestCache_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	source := &mockSource{articlesFunc: func(ctx context.Context) ([]Article, error) {
		return mixedArticles(), nil
	}}
	cache := newTestCache(source, newFakeClock(), WithMetrics(metrics))

	_, err := cache.Articles(ctx)
	require.NoError(t, err)
	_, err = cache.Articles(ctx)
	require.NoError(t, err)
	cache.Invalidate()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.invalidations))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.unclassified))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.size))
}
