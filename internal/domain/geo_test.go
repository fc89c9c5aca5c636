package domain

import (
	"math"
	"testing"
)

const distanceEpsilon = 1e-9

func TestDistance_MissingCoordinate(t *testing.T) {
	a := &Coordinate{Lat: 41.5, Lng: -90.5}

	if _, ok := Distance(nil, a); ok {
		t.Error("expected no distance when first point is missing")
	}
	if _, ok := Distance(a, nil); ok {
		t.Error("expected no distance when second point is missing")
	}
	if d := DistancePtr(nil, nil); d != nil {
		t.Errorf("expected nil distance, got %v", *d)
	}
}

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 41.5236, Lng: -90.5776},
		{Lat: -89.9, Lng: 179.9},
	}
	for _, p := range points {
		p := p
		d, ok := Distance(&p, &p)
		if !ok {
			t.Fatalf("expected distance for %+v", p)
		}
		if math.Abs(d) > distanceEpsilon {
			t.Errorf("distance(%+v, itself) = %v, want 0", p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lat: 41.5236, Lng: -90.5776}, {Lat: 41.4900, Lng: -90.5820}},
		{{Lat: 51.5074, Lng: -0.1278}, {Lat: 40.7128, Lng: -74.0060}},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 180}},
		{{Lat: 89.99, Lng: 10}, {Lat: -89.99, Lng: -170}},
	}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		ab, _ := Distance(&a, &b)
		ba, _ := Distance(&b, &a)
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("distance not symmetric for %+v/%+v: %v vs %v", a, b, ab, ba)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	// One degree of latitude along a meridian.
	a := &Coordinate{Lat: 0, Lng: 0}
	b := &Coordinate{Lat: 1, Lng: 0}
	d, _ := Distance(a, b)
	want := EarthRadiusMiles * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("expected %v miles, got %v", want, d)
	}

	// London to New York is roughly 3460 miles.
	london := &Coordinate{Lat: 51.5074, Lng: -0.1278}
	nyc := &Coordinate{Lat: 40.7128, Lng: -74.0060}
	d, _ = Distance(london, nyc)
	if d < 3440 || d > 3480 {
		t.Errorf("expected ~3460 miles London to NYC, got %v", d)
	}
}

func TestDistance_AntipodalIsFinite(t *testing.T) {
	a := &Coordinate{Lat: 0, Lng: 0}
	b := &Coordinate{Lat: 0, Lng: 180}
	d, ok := Distance(a, b)
	if !ok || math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("expected finite distance for antipodes, got %v (ok=%v)", d, ok)
	}
	half := math.Pi * EarthRadiusMiles
	if math.Abs(d-half) > 1e-6 {
		t.Errorf("expected half circumference %v, got %v", half, d)
	}
}

func TestOrigin_Coordinate(t *testing.T) {
	lat := 41.5
	if c := (Origin{Lat: &lat}).Coordinate(); c != nil {
		t.Errorf("expected nil for half-set origin, got %+v", c)
	}

	nan := math.NaN()
	if c := (Origin{Lat: &lat, Lng: &nan}).Coordinate(); c != nil {
		t.Errorf("expected nil for non-finite origin, got %+v", c)
	}

	c := OriginAt(41.5, -90.5).Coordinate()
	if c == nil || c.Lat != 41.5 || c.Lng != -90.5 {
		t.Errorf("unexpected origin coordinate %+v", c)
	}
}
