package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"placeswipe/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRadiusMeters(t *testing.T) {
	tests := map[float64]int{
		0:     100,
		0.01:  100,
		0.1:   161,
		1:     1609,
		10:    16093,
		50:    80467,
		-5:    100,
		0.062: 100,
	}
	for mi, want := range tests {
		if got := RadiusMeters(mi); got != want {
			t.Errorf("RadiusMeters(%v) = %d, want %d", mi, got, want)
		}
	}
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(41.5, -90.5, 1609, 120)

	for _, want := range []string{
		"[out:json][timeout:25];",
		"node(around:1609,41.5,-90.5)[amenity=restaurant];",
		"way(around:1609,41.5,-90.5)[amenity=restaurant];",
		"node(around:1609,41.5,-90.5)[cuisine];",
		"way(around:1609,41.5,-90.5)[cuisine];",
		"out center 120;",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestNormalize_DropsUnnamedAndUnplaced(t *testing.T) {
	origin := domain.Coordinate{Lat: 41.5, Lng: -90.5}
	elements := []Element{
		{Type: "node", Lat: fptr(41.5), Lon: fptr(-90.5), Tags: map[string]string{"name": "   "}},
		{Type: "node", Lat: fptr(41.5), Lon: fptr(-90.5)},
		{Type: "way", Tags: map[string]string{"name": "No Position"}},
		{Type: "node", Lat: fptr(41.5), Tags: map[string]string{"name": "Half Position"}},
		{Type: "way", Center: &Center{Lat: fptr(41.51), Lon: fptr(-90.51)}, Tags: map[string]string{"name": "  Way Place "}},
	}

	got := Normalize(origin, elements)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Way Place" {
		t.Errorf("expected trimmed name, got %q", got[0].Name)
	}
	if got[0].Coordinate == nil || got[0].Coordinate.Lat != 41.51 {
		t.Errorf("expected centroid coordinate, got %+v", got[0].Coordinate)
	}
}

func TestNormalize_Note(t *testing.T) {
	origin := domain.Coordinate{}
	elements := []Element{
		{Lat: fptr(0), Lon: fptr(0.001), Tags: map[string]string{
			"name": "Full", "cuisine": "middle_eastern", "addr:street": "Main St", "addr:housenumber": "12",
		}},
		{Lat: fptr(0), Lon: fptr(0.002), Tags: map[string]string{"name": "Street Only", "addr:street": "Main St"}},
		{Lat: fptr(0), Lon: fptr(0.003), Tags: map[string]string{"name": "Number Only", "addr:housenumber": "12"}},
		{Lat: fptr(0), Lon: fptr(0.004), Tags: map[string]string{"name": "Cuisine Only", "cuisine": "pizza"}},
	}

	want := map[string]string{
		"Full":         "middle eastern · 12 Main St",
		"Street Only":  "Main St",
		"Number Only":  "",
		"Cuisine Only": "pizza",
	}

	for _, c := range Normalize(origin, elements) {
		if c.Note != want[c.Name] {
			t.Errorf("%s: note %q, want %q", c.Name, c.Note, want[c.Name])
		}
	}
}

func TestNormalize_DedupFirstWins(t *testing.T) {
	origin := domain.Coordinate{}
	elements := []Element{
		{Lat: fptr(1.00001), Lon: fptr(1.00001), Tags: map[string]string{"name": "Twin", "cuisine": "first"}},
		{Lat: fptr(1.00002), Lon: fptr(1.00002), Tags: map[string]string{"name": "TWIN", "cuisine": "second"}},
		{Lat: fptr(1.1), Lon: fptr(1.1), Tags: map[string]string{"name": "Twin", "cuisine": "elsewhere"}},
	}

	got := Normalize(origin, elements)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates after dedup, got %d", len(got))
	}
	if got[0].Note != "first" || got[1].Note != "elsewhere" {
		t.Errorf("unexpected dedup result %+v", got)
	}
}

func TestNormalize_SortsNearestFirst(t *testing.T) {
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	elements := []Element{
		{Lat: fptr(0.3), Lon: fptr(0), Tags: map[string]string{"name": "Far"}},
		{Lat: fptr(0.1), Lon: fptr(0), Tags: map[string]string{"name": "Near"}},
		{Lat: fptr(0.2), Lon: fptr(0), Tags: map[string]string{"name": "Middle"}},
	}

	got := Normalize(origin, elements)
	order := []string{got[0].Name, got[1].Name, got[2].Name}
	if strings.Join(order, ",") != "Near,Middle,Far" {
		t.Errorf("unexpected order %v", order)
	}
	for _, c := range got {
		if c.DistanceMi != nil {
			t.Errorf("expected distance left for round start, got %v", *c.DistanceMi)
		}
	}
}

func TestClient_FindNearby(t *testing.T) {
	var gotQuery, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotQuery = r.PostForm.Get("data")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"elements":[
			{"type":"node","id":1,"lat":41.52,"lon":-90.5,"tags":{"name":"Second","cuisine":"thai"}},
			{"type":"way","id":2,"center":{"lat":41.501,"lon":-90.5},"tags":{"name":"First"}},
			{"type":"node","id":3,"lat":41.51,"lon":-90.5,"tags":{}}
		]}`)
	}))
	defer srv.Close()

	client := NewClient(Options{Endpoint: srv.URL, Timeout: 5 * time.Second}, testLogger())
	got, err := client.FindNearby(context.Background(), domain.Coordinate{Lat: 41.5, Lng: -90.5}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "application/x-www-form-urlencoded") {
		t.Errorf("unexpected content type %q", gotContentType)
	}
	if gotQuery != BuildQuery(41.5, -90.5, 1609, DefaultMaxResults) {
		t.Errorf("unexpected query sent:\n%s", gotQuery)
	}

	if len(got) != 2 || got[0].Name != "First" || got[1].Name != "Second" {
		t.Fatalf("unexpected candidates %+v", got)
	}
	if got[1].Note != "thai" {
		t.Errorf("expected note thai, got %q", got[1].Note)
	}
}

func TestClient_FindNearby_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Options{Endpoint: srv.URL}, testLogger())
	got, err := client.FindNearby(context.Background(), domain.Coordinate{}, 1)
	if got != nil {
		t.Errorf("expected no partial results, got %+v", got)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected StatusError 429, got %v", err)
	}
}

func TestClient_FindNearby_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>busy</html>`)
	}))
	defer srv.Close()

	client := NewClient(Options{Endpoint: srv.URL}, testLogger())
	if _, err := client.FindNearby(context.Background(), domain.Coordinate{}, 1); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_FindNearby_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, testLogger())
	_, err := client.FindNearby(context.Background(), domain.Coordinate{}, 1)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, ErrUpstream) {
		t.Errorf("timeout should be a network error, got %v", err)
	}
}
