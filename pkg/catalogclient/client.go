package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Logger минимальный логгер клиента
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// Config настройки клиента каталога
type Config struct {
	BaseURL string // например "http://localhost:8080"
	// DedupeInterval через сколько кэшированный ответ перезапрашивается, по умолчанию 30s
	DedupeInterval time.Duration
	HTTPClient     *http.Client
	// TraceID достает trace id из контекста для заголовка X-Trace-ID
	TraceID func(ctx context.Context) string
	Logger  Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	traceID    func(ctx context.Context) string
	logger     Logger
	cache      *swrCache
}

type Option func(*Client)

// WithClock подменяет часы кэша, нужен тестам
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.cache.now = now
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog client: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("catalog client: invalid base URL: %w", err)
	}
	if cfg.DedupeInterval <= 0 {
		cfg.DedupeInterval = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		traceID:    cfg.TraceID,
		logger:     cfg.Logger,
		cache:      newSWRCache(cfg.DedupeInterval, time.Now, cfg.Logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invalidate сбрасывает кэш ответов
func (c *Client) Invalidate() {
	c.cache.invalidate("")
}

// Wait ждет завершения фоновых перезапросов
func (c *Client) Wait() {
	c.cache.wait()
}

func (c *Client) GetItems(ctx context.Context, p ItemsParams) (*ItemsPage, error) {
	q, err := itemsQuery(p)
	if err != nil {
		return nil, err
	}
	path := "/api/items/" + url.PathEscape(p.GiftName)
	return cached(ctx, c, "items|"+p.GiftName+"|"+q.Encode(), func(ctx context.Context) (*ItemsPage, error) {
		var page ItemsPage
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
}

func (c *Client) GetCollectionData(ctx context.Context, p CollectionDataParams) (*CollectionData, error) {
	q, err := itemsQuery(p.ItemsParams)
	if err != nil {
		return nil, err
	}
	q.Set("include_attributes", strconv.FormatBool(p.IncludeAttributes))
	path := "/api/collection-data/" + url.PathEscape(p.GiftName)
	return cached(ctx, c, "collection-data|"+p.GiftName+"|"+q.Encode(), func(ctx context.Context) (*CollectionData, error) {
		var data CollectionData
		if err := c.getJSON(ctx, path, q, &data); err != nil {
			return nil, err
		}
		return &data, nil
	})
}

func (c *Client) GetAttributes(ctx context.Context, giftName string) (Distribution, error) {
	path := "/api/attributes/" + url.PathEscape(giftName)
	return cached(ctx, c, "attributes|"+giftName, func(ctx context.Context) (Distribution, error) {
		var dist Distribution
		if err := c.getJSON(ctx, path, nil, &dist); err != nil {
			return nil, err
		}
		return dist, nil
	})
}

func (c *Client) GetStats(ctx context.Context, giftName string) (*Stats, error) {
	path := "/api/stats/" + url.PathEscape(giftName)
	return cached(ctx, c, "stats|"+giftName, func(ctx context.Context) (*Stats, error) {
		var stats Stats
		if err := c.getJSON(ctx, path, nil, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	})
}

func (c *Client) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	return cached(ctx, c, "list-exports", func(ctx context.Context) ([]CollectionInfo, error) {
		var resp struct {
			DB []CollectionInfo `json:"db"`
		}
		if err := c.getJSON(ctx, "/api/list-exports", nil, &resp); err != nil {
			return nil, err
		}
		return resp.DB, nil
	})
}

// CheckCollection не кэшируется
func (c *Client) CheckCollection(ctx context.Context, giftName string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
		DB     bool `json:"db"`
	}
	if err := c.getJSON(ctx, "/api/check-file/"+url.PathEscape(giftName), nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists || resp.DB, nil
}

// cached типизированная обертка над swrCache
func cached[T any](ctx context.Context, c *Client, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.cache.get(ctx, key, func(ctx context.Context) (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// itemsQuery лимит зажимается в [1, MaxItemsLimit]
func itemsQuery(p ItemsParams) (url.Values, error) {
	if p.GiftName == "" {
		return nil, fmt.Errorf("catalog client: gift name is required")
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultItemsLimit
	}
	if limit > MaxItemsLimit {
		limit = MaxItemsLimit
	}
	sort := p.Sort
	if sort == "" {
		sort = "id-asc"
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", sort)
	if len(p.Filters) > 0 {
		// encoding/json сортирует ключи map, поэтому ключ кэша стабилен
		raw, err := json.Marshal(p.Filters)
		if err != nil {
			return nil, fmt.Errorf("catalog client: failed to encode filters: %w", err)
		}
		q.Set("attributes", string(raw))
	}
	return q, nil
}

// doRequest GET с trace id
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.traceID != nil {
		if traceID := c.traceID(ctx); traceID != "" {
			req.Header.Set("X-Trace-ID", traceID)
		}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending request to catalog service", "url", target)
	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.doRequest(ctx, path, query)
	if err != nil {
		return fmt.Errorf("catalog api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog api response: %w", err)
	}
	return nil
}
