// Package metrics provides Prometheus instrumentation for placeswipe. It
// exposes counters for rounds and votes, place lookup outcomes and latency,
// and a gauge for connected state-feed clients.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoundsStarted counts rounds started, labeled by whether the eligible
	// pool was empty ("empty") or not ("ok").
	RoundsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placeswipe_rounds_started_total",
		Help: "Total number of swipe rounds started",
	}, []string{"pool"})

	// VotesTotal counts votes, labeled by choice: "like" or "pass".
	VotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placeswipe_votes_total",
		Help: "Total number of votes cast",
	}, []string{"choice"})

	// PlaceLookups counts nearby place lookups, labeled by outcome:
	// "ok", "empty", "upstream_error", "network_error".
	PlaceLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placeswipe_place_lookups_total",
		Help: "Total number of nearby place lookups",
	}, []string{"outcome"})

	// PlaceLookupDuration records how long the remote place query took.
	PlaceLookupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placeswipe_place_lookup_duration_seconds",
		Help:    "Remote place lookup latency in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
	})

	// LocationLookups counts device location lookups, labeled by outcome.
	LocationLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placeswipe_location_lookups_total",
		Help: "Total number of location lookups",
	}, []string{"outcome"})

	// FeedClients tracks the current number of connected state-feed clients.
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "placeswipe_feed_clients",
		Help: "Current number of connected WebSocket state-feed clients",
	})
)

func init() {
	prometheus.MustRegister(
		RoundsStarted,
		VotesTotal,
		PlaceLookups,
		PlaceLookupDuration,
		LocationLookups,
		FeedClients,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
