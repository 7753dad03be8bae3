package mapwise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// PageMax is the maximum listing size MapWise returns per request.
	PageMax = 100

	// DemoKey is sent when no API key is configured. MapWise may still
	// reject it with 401; demo mode exists so local development works
	// without credentials.
	DemoKey = "DEMO_KEY"
)

// Client is an HTTP client for the MapWise parcel API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a MapWise client. An empty apiKey falls back to
// demo mode. requestsPerSecond throttles outbound calls; MapWise
// rate-limits bursts, and the bulk resolver issues one call per PIN.
func NewClient(baseURL, apiKey string, requestsPerSecond float64) *Client {
	if apiKey == "" {
		apiKey = DemoKey
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// FetchCountyListing fetches up to limit parcels for a county. A 404
// from MapWise is returned as an *APIError with KindNotFound; callers
// decide whether that is an error (single search) or an empty listing
// (bulk resolution).
func (c *Client) FetchCountyListing(ctx context.Context, county string, limit int) (*Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}

	params := url.Values{}
	params.Set("searchCounty", county)
	params.Set("limit", strconv.Itoa(limit))

	fullURL := fmt.Sprintf("%s/parcels?%s", c.baseURL, params.Encode())

	start := time.Now()
	LogRequest("GET", c.baseURL+"/parcels", map[string]interface{}{
		"county": county,
		"limit":  limit,
	})

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogError("fetch", err)
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Kind: classifyStatus(resp.StatusCode), StatusCode: resp.StatusCode}
		LogError("fetch", apiErr)
		return nil, apiErr
	}

	var body listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		LogError("decode", err)
		return nil, &APIError{Kind: KindUnexpected, StatusCode: resp.StatusCode, Err: err}
	}

	LogResponse(resp.StatusCode, time.Since(start), len(body.Data))

	return &Listing{
		Parcels:     body.Data,
		RecordCount: body.Meta.RecordCount,
		TotalCount:  body.Meta.TotalCount,
	}, nil
}

// HealthCheck verifies the API key works by requesting a single parcel
// from a county known to have data.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.FetchCountyListing(ctx, "ORANGE", 1); err != nil {
		return fmt.Errorf("mapwise health check: %w", err)
	}
	return nil
}
