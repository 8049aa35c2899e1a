package catalogclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// statsServer отдает totalItems = номер запроса, пока fail не выставлен
type statsServer struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (s *statsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := s.calls.Add(1)
	if s.fail.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"Failed to fetch stats for Plush Pepe","details":"boom"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"totalItems":%d}`, n)
}

func newTestClient(t *testing.T, h http.Handler, clock *fakeClock) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock.Now))
	}
	c, err := NewClient(Config{BaseURL: srv.URL + "/"}, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestStaleWhileRevalidate(t *testing.T) {
	srv := &statsServer{}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newTestClient(t, srv, clock)
	ctx := context.Background()

	stats, err := c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)

	// внутри интервала дедупликации запросов нет
	clock.Advance(10 * time.Second)
	stats, err = c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)
	assert.EqualValues(t, 1, srv.calls.Load())

	// устаревшее значение отдается сразу, обновление идет в фоне
	clock.Advance(25 * time.Second)
	stats, err = c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)

	c.Wait()
	assert.EqualValues(t, 2, srv.calls.Load())

	stats, err = c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
}

func TestFailedRevalidationKeepsCachedValue(t *testing.T) {
	srv := &statsServer{}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := newTestClient(t, srv, clock)
	ctx := context.Background()

	_, err := c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)

	srv.fail.Store(true)
	clock.Advance(time.Minute)

	stats, err := c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)
	c.Wait()

	stats, err = c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalItems)
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := &statsServer{}
	srv.fail.Store(true)
	c := newTestClient(t, srv, nil)

	_, err := c.GetStats(context.Background(), "Plush Pepe")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to fetch stats for Plush Pepe", apiErr.Message)
	assert.Equal(t, "boom", apiErr.Details)

	// ошибки не кэшируются
	srv.fail.Store(false)
	stats, err := c.GetStats(context.Background(), "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
}

func TestGetItems_ClampsLimitAndEncodesQuery(t *testing.T) {
	var gotPath, gotLimit, gotSort, gotAttrs, gotTrace string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		gotSort = r.URL.Query().Get("sort")
		gotAttrs = r.URL.Query().Get("attributes")
		gotTrace = r.Header.Get("X-Trace-ID")
		fmt.Fprint(w, `{"items":[{"id":1,"name":"Plush Pepe #1","base_name":"Plush Pepe","attributes":[{"trait_type":"Model","value":"A"}]}],"totalItems":25,"page":1,"totalPages":1}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL: srv.URL,
		TraceID: func(context.Context) string { return "trace-42" },
	})
	require.NoError(t, err)

	page, err := c.GetItems(context.Background(), ItemsParams{
		GiftName: "Plush Pepe",
		Limit:    500,
		Filters:  Filters{"Model": {"A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/items/Plush Pepe", gotPath)
	assert.Equal(t, "96", gotLimit)
	assert.Equal(t, "id-asc", gotSort)
	assert.Equal(t, `{"Model":["A"]}`, gotAttrs)
	assert.Equal(t, "trace-42", gotTrace)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Model", page.Items[0].Attributes[0].TraitType)
	assert.Equal(t, 25, page.TotalItems)
}

func TestGetCollectionDataAndListCollections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/collection-data/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("include_attributes"))
		fmt.Fprint(w, `{"collectionData":{"giftName":"Plush Pepe","items":[],"totalItems":50,"totalPages":5,"page":1},"attributes":{"Model":{"A":{"count":25,"percentage":"50.00"}}},"stats":{"totalItems":50}}`)
	})
	mux.HandleFunc("/api/list-exports", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"db":[{"name":"Plush Pepe","total":50}]}`)
	})
	mux.HandleFunc("/api/check-file/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"exists":true,"db":true}`)
	})
	c := newTestClient(t, mux, nil)
	ctx := context.Background()

	data, err := c.GetCollectionData(ctx, CollectionDataParams{
		ItemsParams:       ItemsParams{GiftName: "Plush Pepe"},
		IncludeAttributes: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, data.CollectionData.TotalPages)
	assert.Equal(t, "50.00", data.Attributes["Model"]["A"].Percentage)

	list, err := c.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CollectionInfo{{Name: "Plush Pepe", Total: 50}}, list)

	exists, err := c.CheckCollection(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	srv := &statsServer{}
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	_, err := c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	c.Invalidate()

	stats, err := c.GetStats(ctx, "Plush Pepe")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
}

func TestItemsQuery_RequiresGiftName(t *testing.T) {
	_, err := itemsQuery(ItemsParams{})
	assert.Error(t, err)
}
