package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/metrics"
)

const (
	// DefaultBaseURL is the content API root.
	DefaultBaseURL = "https://api.guiawinelocals.com/api"
	// DefaultSearchURL is the search API root.
	DefaultSearchURL = "https://search.guiawinelocals.com"

	feedPath   = "/products?filters[videoGallery][title][$notNull]=true&pagination[pageSize]=1000"
	mapPath    = "/products?pagination[pageSize]=1000"
	regionPath = "/indexes/location/search"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom content API base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithSearchURL sets a custom search API base URL.
func WithSearchURL(url string) ClientOption {
	return func(c *Client) {
		c.searchURL = url
	}
}

// Client reads products and regions. It never authenticates.
type Client struct {
	baseURL    string
	searchURL  string
	httpClient HTTPClient
	logger     zerolog.Logger
}

// NewClient creates a new catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		searchURL:  DefaultSearchURL,
		httpClient: &http.Client{},
		logger:     log.WithComponent("catalog"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Products fetches the products that have a video gallery. Products that
// cannot be normalized are dropped; transport and decoding failures are
// returned.
func (c *Client) Products(ctx context.Context) ([]FeedItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+feedPath, nil, "products")
	if err != nil {
		return nil, err
	}

	items, err := ParseFeed(body, func(id string, err error) {
		reason := "invalid"
		switch {
		case errors.Is(err, ErrMissingID):
			reason = "missing_id"
		case errors.Is(err, ErrNoMedia):
			reason = "no_media"
		}
		metrics.RecordItemDropped(reason)
		c.logger.Debug().Str("product", id).Err(err).Msg("product dropped")
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchFeedItems is Products for screens: any failure yields an empty list.
func (c *Client) FetchFeedItems(ctx context.Context) []FeedItem {
	items, err := c.Products(ctx)
	if err != nil {
		metrics.RecordFeedFetch(false)
		c.logger.Warn().Err(err).Msg("feed fetch failed")
		return []FeedItem{}
	}
	metrics.RecordFeedFetch(true)
	c.logger.Info().Int(log.FieldCount, len(items)).Msg("feed fetched")
	return items
}

// Regions returns the region facet values of the search index.
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"facet": "region"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode facet request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.searchURL+regionPath, payload, "regions")
	if err != nil {
		return nil, err
	}

	var resp facetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	values := lo.Map(resp.Facets.Region.Buckets, func(b bucket, _ int) string {
		return b.Value
	})
	return lo.Compact(values), nil
}

// MapProducts fetches every product for the map tab.
func (c *Client) MapProducts(ctx context.Context) ([]MapProduct, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+mapPath, nil, "map")
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse products response: %w", err)
	}

	return lo.FilterMap(resp.Data, func(obj rawObject, _ int) (MapProduct, bool) {
		return parseMapProduct(obj)
	}), nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, endpoint string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(endpoint, 0)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordAPIRequest(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func handleAPIError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("catalog endpoint not found")
	case http.StatusTooManyRequests:
		return fmt.Errorf("catalog API rate limit exceeded, try again later")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("catalog API unavailable (status %d)", statusCode)
	default:
		return fmt.Errorf("catalog API error (status %d): %s", statusCode, string(body))
	}
}
