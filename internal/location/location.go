// Package location resolves the device's approximate position. The default
// provider asks an ip-api compatible endpoint; a fixed provider serves a
// configured coordinate and a disabled provider always fails.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"placeswipe/internal/domain"
	"placeswipe/internal/metrics"
)

// IPLocator looks up the caller's position from its public IP address
type IPLocator struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
}

// NewIPLocator creates a locator for an ip-api compatible endpoint
func NewIPLocator(endpoint string, timeout time.Duration, client *http.Client, logger *slog.Logger) *IPLocator {
	if client == nil {
		client = &http.Client{}
	}
	return &IPLocator{
		endpoint: endpoint,
		http:     client,
		timeout:  timeout,
		logger:   logger,
	}
}

// ipResponse is the part of the ip-api payload we read
type ipResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// CurrentPosition returns the current position or an error wrapping
// domain.ErrLocationUnavailable
func (l *IPLocator) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	coord, err := l.lookup(ctx)
	if err != nil {
		metrics.LocationLookups.WithLabelValues("error").Inc()
		l.logger.Warn("location lookup failed", "error", err)
		return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}

	metrics.LocationLookups.WithLabelValues("ok").Inc()
	return coord, nil
}

func (l *IPLocator) lookup(ctx context.Context) (domain.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return domain.Coordinate{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return domain.Coordinate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode: %w", err)
	}
	if body.Status != "success" {
		return domain.Coordinate{}, fmt.Errorf("provider said %q: %s", body.Status, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return domain.Coordinate{}, fmt.Errorf("response has no position")
	}

	coord := domain.NewCoordinate(*body.Lat, *body.Lon)
	if coord == nil {
		return domain.Coordinate{}, fmt.Errorf("response position is not finite")
	}
	return *coord, nil
}

// Fixed always reports the same coordinate
type Fixed struct {
	Coordinate domain.Coordinate
}

// CurrentPosition returns the configured coordinate
func (f Fixed) CurrentPosition(context.Context) (domain.Coordinate, error) {
	metrics.LocationLookups.WithLabelValues("ok").Inc()
	return f.Coordinate, nil
}

// Disabled is used when no location service is available
type Disabled struct{}

// CurrentPosition always fails
func (Disabled) CurrentPosition(context.Context) (domain.Coordinate, error) {
	metrics.LocationLookups.WithLabelValues("unavailable").Inc()
	return domain.Coordinate{}, domain.ErrLocationUnavailable
}
