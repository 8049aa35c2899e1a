package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-service/internal/adapters/cache"
	"catalog-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	uc := NewGetStatsUseCase(store, cache.NewMemoryCache[domain.CollectionStats]("stats", time.Minute))
	ctx := context.Background()

	stats, err := uc.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 50, stats.TotalItems)

	store.put("plushpepes", domain.Item{ID: 51})
	stats, err = uc.Execute(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 50, stats.TotalItems, "count is served from cache within ttl")

	_, err = uc.Execute(ctx, "Nonexistent")
	assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))
}

func TestListCollections(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	store.put("JellyBunnys", domain.Item{ID: 1}, domain.Item{ID: 2})
	collections := cache.NewMemoryCache[[]domain.CollectionInfo]("collections", time.Minute)
	uc := NewListCollectionsUseCase(store, collections)
	ctx := context.Background()

	list, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.CollectionInfo{
		{Name: "Plushpepe", Table: "plushpepes", Total: 50},
		{Name: "Jelly Bunny", Table: "JellyBunnys", Total: 2},
	}, list)

	store.put("lolpops", domain.Item{ID: 1})
	again, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, 1, collections.Len())
}

func TestListCollectionsPropagatesErrors(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	store.err = errors.New("connection reset")
	uc := NewListCollectionsUseCase(store, cache.NewMemoryCache[[]domain.CollectionInfo]("collections", time.Minute))

	_, err := uc.Execute(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestCheckCollection(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	store.put("emptys")
	uc := NewCheckCollectionUseCase(store)
	ctx := context.Background()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "has items", in: "Plush Pepe", want: true},
		{name: "empty table", in: "Empty", want: false},
		{name: "missing table", in: "Nonexistent", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Execute(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("storage failure is an error", func(t *testing.T) {
		store.err = errors.New("boom")
		defer func() { store.err = nil }()
		_, err := uc.Execute(ctx, "Plush Pepe")
		assert.Error(t, err)
	})
}

func newCollectionDataUseCase(store *fakeItemStore) *GetCollectionDataUseCase {
	return NewGetCollectionDataUseCase(
		NewGetItemsUseCase(store, PaginationConfig{}),
		NewGetAttributesUseCase(store, cache.NewMemoryCache[domain.AttributeDistribution]("attributes", time.Minute), nil),
		NewGetStatsUseCase(store, cache.NewMemoryCache[domain.CollectionStats]("stats", time.Minute)),
	)
}

func TestGetCollectionData(t *testing.T) {
	store := newFakeItemStore()
	store.put("plushpepes", plushPepe()...)
	uc := newCollectionDataUseCase(store)
	ctx := context.Background()

	t.Run("with attributes", func(t *testing.T) {
		data, err := uc.Execute(ctx, domain.CollectionDataRequest{
			ItemsRequest:      domain.ItemsRequest{CollectionName: "Plush Pepe", Page: 1, Limit: 12, Filters: domain.AttributeFilters{"Model": {"A"}}},
			IncludeAttributes: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Plush Pepe", data.GiftName)
		assert.Len(t, data.Page.Items, 12)
		assert.Equal(t, 25, data.Page.TotalItems)
		assert.Equal(t, 3, data.Page.TotalPages)
		assert.Equal(t, 50, data.Stats.TotalItems)
		assert.Equal(t, "50.00", data.Attributes["Model"]["A"].Percentage)
	})

	t.Run("without attributes", func(t *testing.T) {
		scans := store.scanCalls
		data, err := uc.Execute(ctx, domain.CollectionDataRequest{
			ItemsRequest: domain.ItemsRequest{CollectionName: "Plush Pepe"},
		})
		require.NoError(t, err)
		assert.Nil(t, data.Attributes)
		assert.Equal(t, scans, store.scanCalls)
	})

	t.Run("missing collection", func(t *testing.T) {
		_, err := uc.Execute(ctx, domain.CollectionDataRequest{
			ItemsRequest:      domain.ItemsRequest{CollectionName: "Nonexistent"},
			IncludeAttributes: true,
		})
		assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := uc.Execute(ctx, domain.CollectionDataRequest{
			ItemsRequest: domain.ItemsRequest{CollectionName: "Plush Pepe", Sort: "rarity-asc"},
		})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}
