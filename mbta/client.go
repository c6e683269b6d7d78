// Package mbta is a thin client for the MBTA v3 REST API
// (https://api-v3.mbta.com). It covers the handful of endpoints the
// pipeline and chatbot need: predictions, vehicles and stops.
package mbta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public v3 API endpoint.
	DefaultBaseURL = "https://api-v3.mbta.com"

	defaultUserAgent = "mbta-delay-pipeline"
	defaultTimeout   = 30 * time.Second
)

// Config holds client settings. APIKey is optional; the public API
// allows unauthenticated low-volume access.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the MBTA v3 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// PredictionsQuery selects which predictions to fetch. Exactly one of
// RouteFilter or StopFilter is normally set.
type PredictionsQuery struct {
	RouteFilter string
	StopFilter  string
	Include     string
	Sort        string
	Limit       int
}

func (q PredictionsQuery) values() url.Values {
	v := url.Values{}
	if q.RouteFilter != "" {
		v.Set("filter[route]", q.RouteFilter)
	}
	if q.StopFilter != "" {
		v.Set("filter[stop]", q.StopFilter)
	}
	if q.Include != "" {
		v.Set("include", q.Include)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		v.Set("page[limit]", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	return c.http.Do(req)
}

// Ping probes the predictions endpoint with a minimal page size and
// returns the HTTP status code. A transport failure returns an error.
func (c *Client) Ping(ctx context.Context, routeFilter string) (int, error) {
	q := PredictionsQuery{RouteFilter: routeFilter, Include: "route,trip", Limit: 5}
	resp, err := c.get(ctx, "/predictions", q.values())
	if err != nil {
		return 0, fmt.Errorf("mbta api unreachable: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// PredictionsRaw fetches a prediction page for the route filter and
// returns the response body verbatim. Non-200 statuses are errors.
func (c *Client) PredictionsRaw(ctx context.Context, routeFilter string, limit int) ([]byte, error) {
	q := PredictionsQuery{RouteFilter: routeFilter, Include: "route,trip", Limit: limit}
	resp, err := c.get(ctx, "/predictions", q.values())
	if err != nil {
		return nil, fmt.Errorf("fetch predictions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch predictions: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predictions body: %w", err)
	}
	return body, nil
}

// Predictions fetches and decodes a prediction page.
func (c *Client) Predictions(ctx context.Context, q PredictionsQuery) (*Envelope, error) {
	resp, err := c.get(ctx, "/predictions", q.values())
	if err != nil {
		return nil, fmt.Errorf("fetch predictions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch predictions: status %d", resp.StatusCode)
	}
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	return &env, nil
}

// Vehicles fetches vehicles filtered by trip id.
func (c *Client) Vehicles(ctx context.Context, tripID string, limit int) (*Envelope, error) {
	v := url.Values{}
	v.Set("filter[trip]", tripID)
	if limit > 0 {
		v.Set("page[limit]", strconv.Itoa(limit))
	}

	resp, err := c.get(ctx, "/vehicles", v)
	if err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch vehicles: status %d", resp.StatusCode)
	}
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return &env, nil
}

// StopName resolves a stop id to its human-readable name.
func (c *Client) StopName(ctx context.Context, stopID string) (string, error) {
	resp, err := c.get(ctx, "/stops/"+stopID, nil)
	if err != nil {
		return "", fmt.Errorf("fetch stop %s: %w", stopID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch stop %s: status %d", stopID, resp.StatusCode)
	}
	var env singleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode stop %s: %w", stopID, err)
	}
	return env.Data.Attributes.Name, nil
}
