package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/adapters/cache"
	"catalog-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestGetAttributesPlushPepe(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	uc := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", 5*time.Minute), nil)

	dist, err := uc.Execute(context.Background(), "Plush Pepe")
	require.NoError(t, err)

	assert.Equal(t, "50.00", dist["Model"]["A"].Percentage)
	assert.Equal(t, 25, dist["Model"]["B"].Count)
	assert.Contains(t, dist, "Backdrop")
}

func TestGetAttributesIgnoresFiltersOfItemQueries(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	items := NewGetItemsUseCase(store, PaginationConfig{})
	attrs := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), nil)
	ctx := context.Background()

	page, err := items.Execute(ctx, domain.ItemsRequest{CollectionName: "Plush Pepe", Filters: domain.AttributeFilters{"Model": {"A"}}})
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalItems)

	dist, err := attrs.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, "50.00", dist["Model"]["A"].Percentage)
}

func TestGetAttributesCacheFreshness(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewMemoryCache[domain.AttributeDistribution]("attributes", 5*time.Minute, cache.WithClock(clock.Now))
	uc := NewGetAttributesUseCase(store, c, nil)
	ctx := context.Background()

	first, err := uc.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)

	// 50 новых предметов с Model=C меняют распределение
	extra := make([]domain.Item, 0, 50)
	for i := 51; i <= 100; i++ {
		extra = append(extra, domain.Item{ID: int64(i), Attributes: []domain.Attribute{{TraitType: "Model", Value: "C"}}})
	}
	store.put("plushpepes", extra...)

	clock.Advance(4 * time.Minute)
	cached, err := uc.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, first, cached)
	assert.Equal(t, 1, store.scanCalls)

	clock.Advance(2 * time.Minute)
	fresh, err := uc.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, "25.00", fresh["Model"]["A"].Percentage)
	assert.Equal(t, "50.00", fresh["Model"]["C"].Percentage)
	assert.Equal(t, 2, store.scanCalls)
}

func TestGetAttributesCoalescesConcurrentMisses(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	store.scanGate = make(chan struct{})
	uc := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), nil)

	var wg sync.WaitGroup
	results := make([]domain.AttributeDistribution, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dist, err := uc.Execute(context.Background(), "Plush Pepe")
			assert.NoError(t, err)
			results[i] = dist
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(store.scanGate)
	wg.Wait()

	assert.Equal(t, 1, store.scanCalls)
	for _, r := range results {
		assert.Equal(t, "50.00", r["Model"]["A"].Percentage)
	}
}

func TestGetAttributesCustomPriority(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	uc := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), []string{"backdrop"})

	dist, err := uc.Execute(context.Background(), "Plush Pepe")
	require.NoError(t, err)
	assert.NotContains(t, dist, "Model")
	assert.Contains(t, dist, "Backdrop")
}

func TestGetAttributesErrors(t *testing.T) {
	store := newFakeItemStore()
	uc := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), nil)

	_, err := uc.Execute(context.Background(), "Nonexistent")
	assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))

	_, err = uc.Execute(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestGetAttributesSharedScanSurvivesFirstCallerCancel(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	store.scanGate = make(chan struct{})
	store.scanStart = make(chan struct{}, 1)
	uc := NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := uc.Execute(ctxA, "Plush Pepe")
		errA <- err
	}()
	<-store.scanStart

	type result struct {
		dist domain.AttributeDistribution
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		dist, err := uc.Execute(context.Background(), "Plush Pepe")
		resB <- result{dist, err}
	}()

	// B успевает присоединиться к сканированию A
	time.Sleep(50 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(store.scanGate)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "50.00", b.dist["Model"]["A"].Percentage)
	assert.Equal(t, 1, store.scanCalls)
}
