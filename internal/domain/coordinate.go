package domain

import "math"

// Coordinate is a WGS84 point. A missing coordinate is a nil *Coordinate.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate returns a coordinate when both halves are finite, nil otherwise
func NewCoordinate(lat, lng float64) *Coordinate {
	if !isFinite(lat) || !isFinite(lng) {
		return nil
	}
	return &Coordinate{Lat: lat, Lng: lng}
}

// Origin is the user's reference point. Either half may be unset while the
// user is still typing.
type Origin struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Coordinate returns the origin as a coordinate, or nil if either half is unset
func (o Origin) Coordinate() *Coordinate {
	if o.Lat == nil || o.Lng == nil {
		return nil
	}
	return NewCoordinate(*o.Lat, *o.Lng)
}

// OriginAt returns an origin with both halves set
func OriginAt(lat, lng float64) Origin {
	return Origin{Lat: &lat, Lng: &lng}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
