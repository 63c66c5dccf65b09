package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/rockshoes/cart-service/pkg/errors"
)

const (
	requestBodyReadLimit int64 = 1024
	defaultTimeout             = 10 * time.Second
)

var errBaseURLRequired = errors.New("inventory base URL is required")

// Product is the catalog record for a single sellable item.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// StockInfo is the available quantity for a product.
type StockInfo struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

// Client fetches the catalog data cart operations validate against.
type Client interface {
	Product(ctx context.Context, productID int64) (*Product, error)
	Stock(ctx context.Context, productID int64) (*StockInfo, error)
}

// HTTPClient talks to the catalog service over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ Client = (*HTTPClient)(nil)

// Option configures optional client behavior.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewHTTPClient builds the catalog client given its base URL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &HTTPClient{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// Product fetches the catalog record for the given product ID.
func (c *HTTPClient) Product(ctx context.Context, productID int64) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory client not configured")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}

	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, productID), "product", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Stock fetches the available quantity for the given product ID.
func (c *HTTPClient) Stock(ctx context.Context, productID int64) (*StockInfo, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory client not configured")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be positive")
	}

	var stock StockInfo
	if err := c.getJSON(ctx, fmt.Sprintf("%s/stock/%d", c.baseURL, productID), "stock", &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, resource string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", resource))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", resource))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", resource))
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), fmt.Sprintf("%s request failed", resource))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", resource))
	}
	return nil
}
