package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/angelmondragon/utmart-backend/pkg/types"
)

const (
	DefaultBaseURL       = "http://localhost:5000/api"
	errorBodyReadLimit   = 1024
	endpointProducts     = "products"
	endpointByCategory   = "products_by_category"
	endpointProduct      = "product"
	endpointCategories   = "categories"
	endpointCategoryInfo = "categories_details"
	endpointCategory     = "category"
)

// Client reads the catalog from the REST API. Every failure degrades to an
// empty result and is logged; callers never see an error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics counts degraded calls.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a catalog client rooted at baseURL. The default HTTP client
// has no timeout; cancellation comes from the request context.
func NewClient(baseURL string, logg *logger.Logger, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logg:       logg,
	}
	if client.baseURL == "" {
		client.baseURL = DefaultBaseURL
	}
	if client.logg == nil {
		client.logg = logger.Nop()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

func (c *Client) ListProducts(ctx context.Context) []Product {
	products, ok := getData[[]Product](ctx, c, endpointProducts, "products")
	if !ok || products == nil {
		return []Product{}
	}
	return products
}

func (c *Client) ListProductsByCategory(ctx context.Context, category string) []Product {
	path := "products/category/" + url.PathEscape(strings.TrimSpace(category))
	products, ok := getData[[]Product](ctx, c, endpointByCategory, path)
	if !ok || products == nil {
		return []Product{}
	}
	return products
}

// GetProduct returns nil when the product is missing or the call fails. A
// successful response carrying no product counts as missing.
func (c *Client) GetProduct(ctx context.Context, id uint) *Product {
	product, ok := getData[Product](ctx, c, endpointProduct, "products/"+strconv.FormatUint(uint64(id), 10))
	if !ok || product.ID == 0 {
		return nil
	}
	return &product
}

func (c *Client) ListCategoryNames(ctx context.Context) []string {
	names, ok := getData[[]string](ctx, c, endpointCategories, "categories")
	if !ok || names == nil {
		return []string{}
	}
	return names
}

// ListCategoriesWithDetails returns every category with its product references.
func (c *Client) ListCategoriesWithDetails(ctx context.Context) []Category {
	categories, ok := getData[[]Category](ctx, c, endpointCategoryInfo, "categories/details")
	if !ok || categories == nil {
		return []Category{}
	}
	return categories
}

func (c *Client) GetCategory(ctx context.Context, id uint) *Category {
	category, ok := getData[Category](ctx, c, endpointCategory, "categories/"+strconv.FormatUint(uint64(id), 10))
	if !ok || category.ID == 0 {
		return nil
	}
	return &category
}

func getData[T any](ctx context.Context, c *Client, endpoint, path string) (T, bool) {
	var envelope types.DataEnvelope[T]
	if err := c.get(ctx, path, &envelope); err != nil {
		c.fail(ctx, endpoint, path, err)
		var zero T
		return zero, false
	}
	return envelope.Data, true
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fail(ctx context.Context, endpoint, path string, err error) {
	c.metrics.IncCatalogFailure(endpoint)
	ctx = c.logg.WithFields(ctx, map[string]any{
		"endpoint": endpoint,
		"path":     path,
	})
	c.logg.Error(ctx, "catalog.request_failed", err)
}
