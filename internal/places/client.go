package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"placeswipe/internal/domain"
	"placeswipe/internal/metrics"
)

// ErrUpstream marks a non-success response from the Overpass endpoint
var ErrUpstream = errors.New("places: upstream error")

// StatusError carries the HTTP status of a failed Overpass request
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("places: overpass returned status %d", e.StatusCode)
}

// Unwrap lets errors.Is match ErrUpstream
func (e *StatusError) Unwrap() error {
	return ErrUpstream
}

// Client queries an Overpass API endpoint
type Client struct {
	endpoint   string
	http       *http.Client
	maxResults int
	timeout    time.Duration
	logger     *slog.Logger
}

// Options configures a Client
type Options struct {
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new Overpass client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	return &Client{
		endpoint:   opts.Endpoint,
		http:       opts.HTTPClient,
		maxResults: opts.MaxResults,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// FindNearby returns named, located restaurants within radiusMi of origin,
// nearest first. Any upstream or network failure fails the whole call.
func (c *Client) FindNearby(ctx context.Context, origin domain.Coordinate, radiusMi float64) ([]domain.Candidate, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	meters := RadiusMeters(radiusMi)
	query := BuildQuery(origin.Lat, origin.Lng, meters, c.maxResults)

	elements, err := c.fetch(ctx, query)
	metrics.PlaceLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "network_error"
		if errors.Is(err, ErrUpstream) {
			outcome = "upstream_error"
		}
		metrics.PlaceLookups.WithLabelValues(outcome).Inc()
		return nil, err
	}

	candidates := Normalize(origin, elements)

	outcome := "ok"
	if len(candidates) == 0 {
		outcome = "empty"
	}
	metrics.PlaceLookups.WithLabelValues(outcome).Inc()

	c.logger.Info("nearby lookup finished",
		"radiusMeters", meters,
		"elements", len(elements),
		"candidates", len(candidates),
		"duration", time.Since(start),
	)

	return candidates, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]Element, error) {
	body := "data=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("places: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var data Response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}

	return data.Elements, nil
}
