// Package etagmb is a thin client for the green minibus open data API
// published at data.etagmb.gov.hk.
package etagmb

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

	"github.com/go-playground/validator/v10"
	"github.com/yourorg/gmbcrawl/internal/models"
)

const (
	// DefaultBaseURL is the production endpoint.
	DefaultBaseURL = "https://data.etagmb.gov.hk"
	// DefaultTimeout matches the scheduler budget: a single slow call may use it all.
	DefaultTimeout = 540 * time.Second
)

// Client issues GET requests against the API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient builds a client for baseURL. When client is nil a new one is
// created with the given per-call timeout.
func NewClient(baseURL string, timeout time.Duration, client *http.Client) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		validate:   validator.New(),
	}
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RouteList fetches every route number grouped by region.
func (c *Client) RouteList(ctx context.Context) (*RouteList, error) {
	var env routeListEnvelope
	if err := c.get(ctx, "route list", "/route", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// RoutesByCode fetches the routes (and their directions) of one route number.
func (c *Client) RoutesByCode(ctx context.Context, region models.Region, code string) ([]RouteEntry, error) {
	var env routesEnvelope
	path := "/route/" + url.PathEscape(string(region)) + "/" + url.PathEscape(code)
	if err := c.get(ctx, "route", path, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RouteStops fetches the ordered stops of one route direction.
func (c *Client) RouteStops(ctx context.Context, routeID int64, routeSeq int) (*RouteStops, error) {
	var env routeStopsEnvelope
	path := "/route-stop/" + strconv.FormatInt(routeID, 10) + "/" + strconv.Itoa(routeSeq)
	if err := c.get(ctx, "route-stop", path, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Stop fetches the location of one stop.
func (c *Client) Stop(ctx context.Context, stopID int64) (*Stop, error) {
	var env stopEnvelope
	path := "/stop/" + strconv.FormatInt(stopID, 10)
	if err := c.get(ctx, "stop", path, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("etagmb: build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("etagmb: GET %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("etagmb: read %s: %w", target, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &PayloadError{Endpoint: endpoint, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &PayloadError{Endpoint: endpoint, Err: err}
	}
	return nil
}
