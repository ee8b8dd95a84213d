package gfw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL   = "https://gateway.api.globalfishingwatch.org"
	DefaultDataset   = "public-global-port-visits-events:latest"
	DefaultPageSize  = 2000
	DefaultMaxEvents = 50000
	DefaultPause     = 250 * time.Millisecond
)

// Query selects the events to fetch.
type Query struct {
	Datasets    []string
	StartDate   string
	EndDate     string
	Confidences []string
	// BBox is min_lon, min_lat, max_lon, max_lat. Empty means no geometry filter.
	BBox []float64
}

// Page is one response of the events endpoint.
type Page struct {
	Entries    []map[string]any `json:"entries"`
	Total      *int             `json:"total"`
	NextOffset *int             `json:"nextOffset"`
}

// Client fetches port visit events page by page.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	token     string
	logger    *slog.Logger
	pageSize  int
	maxEvents int
	pause     time.Duration
}

type Option func(*Client)

// WithBaseURL overrides the API gateway (tests point it at an httptest server).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithPageSize sets the page limit.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxEvents stops pagination once this many entries were downloaded. Zero means no limit.
func WithMaxEvents(n int) Option {
	return func(c *Client) {
		c.maxEvents = n
	}
}

// WithPause sets the delay between pages.
func WithPause(d time.Duration) Option {
	return func(c *Client) {
		c.pause = d
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.http.RetryMax = n
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.HTTPClient.Timeout = d
	}
}

// WithLogger sets the logger for pagination progress and retries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client authenticated with token.
func New(token string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 60 * time.Second

	c := &Client{
		http:      rc,
		baseURL:   DefaultBaseURL,
		token:     token,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		pageSize:  DefaultPageSize,
		maxEvents: DefaultMaxEvents,
		pause:     DefaultPause,
	}
	for _, opt := range opts {
		opt(c)
	}
	// *slog.Logger satisfies retryablehttp.LeveledLogger
	c.http.Logger = c.logger
	return c
}

type requestBody struct {
	Datasets    []string  `json:"datasets"`
	Types       []string  `json:"types"`
	StartDate   string    `json:"startDate,omitempty"`
	EndDate     string    `json:"endDate,omitempty"`
	Confidences []string  `json:"confidences,omitempty"`
	Geometry    *geometry `json:"geometry,omitempty"`
}

type geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// bboxPolygon builds a closed GeoJSON ring in [lon, lat] order.
func bboxPolygon(b []float64) *geometry {
	if len(b) != 4 {
		return nil
	}
	minLon, minLat, maxLon, maxLat := b[0], b[1], b[2], b[3]
	return &geometry{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{minLon, minLat},
			{maxLon, minLat},
			{maxLon, maxLat},
			{minLon, maxLat},
			{minLon, minLat},
		}},
	}
}

func (q Query) body() requestBody {
	datasets := q.Datasets
	if len(datasets) == 0 {
		datasets = []string{DefaultDataset}
	}
	return requestBody{
		Datasets:    datasets,
		Types:       []string{"PORT_VISIT"},
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Confidences: q.Confidences,
		Geometry:    bboxPolygon(q.BBox),
	}
}

// FetchPage requests one page of events.
func (c *Client) FetchPage(ctx context.Context, q Query, limit, offset int) (*Page, error) {
	payload, err := json.Marshal(q.body())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("sort", "-start")
	endpoint := c.baseURL + "/v3/events?" + params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("events request: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var page Page
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode events page: %w", err)
	}
	return &page, nil
}

// Fetch walks the pages of q and returns every entry as a flat record.
// It stops when a page is empty, when the API reports no next offset, or once
// max events entries were downloaded.
func (c *Client) Fetch(ctx context.Context, q Query) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	offset := 0
	first := true

	for {
		page, err := c.FetchPage(ctx, q, c.pageSize, offset)
		if err != nil {
			return nil, err
		}
		if first && page.Total != nil {
			c.logger.Info("events available", "total", *page.Total)
		}
		first = false

		if len(page.Entries) == 0 {
			break
		}

		batch, err := Flatten(page.Entries)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", offset, err)
		}
		records = append(records, batch...)
		c.logger.Debug("page downloaded", "offset", offset, "entries", len(batch), "downloaded", len(records))

		if page.NextOffset == nil {
			break
		}
		if c.maxEvents > 0 && len(records) >= c.maxEvents {
			c.logger.Info("stopping at max events", "max_events", c.maxEvents, "downloaded", len(records))
			break
		}
		offset = *page.NextOffset

		if c.pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pause):
			}
		}
	}

	if records == nil {
		records = []domain.RawRecord{}
	}
	return records, nil
}
