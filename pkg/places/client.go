package places

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

// detailFields limits place-details billing to what the import pipeline reads.
var detailFields = []string{
	"place_id", "name", "formatted_address", "geometry", "types", "rating",
	"user_ratings_total", "business_status", "photos",
	"formatted_phone_number", "international_phone_number", "website", "url",
	"address_components", "opening_hours", "editorial_summary", "reviews",
}

// Cache stores first-page text search responses keyed by request.
type Cache interface {
	GetTextSearch(ctx context.Context, key string) (*TextSearchResponse, bool)
	SetTextSearch(ctx context.Context, key string, resp *TextSearchResponse)
}

// Client talks to the Google Places and Geocoding web services.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      Cache
}

// NewClient creates a client; it fails when the config has no API key.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithCache attaches a first-page cache.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

// TextSearch returns one page of results. Follow-up pages use the
// NextPageToken of the previous page; Google rejects a token used within a
// couple of seconds of issuing it, so callers wait before requesting.
func (c *Client) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	} else {
		if strings.TrimSpace(req.Query) == "" {
			return nil, fmt.Errorf("%w: empty query", ErrInvalidRequest)
		}
		params.Set("query", req.Query)
		if req.Location != nil {
			params.Set("location", fmt.Sprintf("%.6f,%.6f", req.Location.Lat, req.Location.Lng))
			if req.Radius > 0 {
				params.Set("radius", strconv.Itoa(req.Radius))
			}
		}
	}

	cacheKey := ""
	if c.cache != nil && req.PageToken == "" && !req.Paginate {
		cacheKey = "places:textsearch:" + params.Encode()
		if cached, ok := c.cache.GetTextSearch(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	var resp TextSearchResponse
	if err := c.get(ctx, "place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Place{}
	}

	if cacheKey != "" {
		// Page tokens expire long before the cache entry does.
		page := resp
		page.NextPageToken = ""
		c.cache.SetTextSearch(ctx, cacheKey, &page)
	}
	return &resp, nil
}

// Details fetches the full record for placeID.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place id", ErrInvalidRequest)
	}
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(detailFields, ","))

	var resp detailsResponse
	if err := c.get(ctx, "place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// Geocode resolves a free-form address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (*LatLng, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidRequest)
	}
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: no results for address", ErrNotFound)
	}
	loc := resp.Results[0].Geometry.Location
	return &loc, nil
}

// PhotoURL builds the photo endpoint URL for a photo reference.
func (c *Client) PhotoURL(reference string, maxWidth int) string {
	if reference == "" {
		return ""
	}
	params := url.Values{}
	params.Set("photo_reference", reference)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("key", c.config.APIKey)
	return fmt.Sprintf("%s/place/photo?%s", strings.TrimRight(c.config.BaseURL, "/"), params.Encode())
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}
	if c.config.Region != "" {
		params.Set("region", c.config.Region)
	}
	params.Set("key", c.config.APIKey)

	endpointURL := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.config.BaseURL, "/"), endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}
	return nil
}

// statusError maps the Places "status" field onto package errors.
func statusError(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	case "INVALID_REQUEST":
		return fmt.Errorf("%w: %s", ErrInvalidRequest, message)
	case "NOT_FOUND":
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case "OVER_QUERY_LIMIT":
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, message)
	case "REQUEST_DENIED":
		return fmt.Errorf("%w: %s", ErrRequestDenied, message)
	}
	return fmt.Errorf("%w: status %s: %s", ErrUpstream, status, message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
