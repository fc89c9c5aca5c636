package domain

import "math"

// EarthRadiusMiles is the mean Earth radius used by Distance
const EarthRadiusMiles = 3958.7613

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Distance returns the great-circle distance between a and b in miles using
// the haversine formula. ok is false when either point is missing.
func Distance(a, b *Coordinate) (miles float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	// s = sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlng/2)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push s just outside [0,1] near antipodes; asin is undefined there.
	s = math.Max(0, math.Min(1, s))

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(s)), true
}

// DistancePtr is Distance in the nullable form used by Candidate.DistanceMi
func DistancePtr(a, b *Coordinate) *float64 {
	d, ok := Distance(a, b)
	if !ok {
		return nil
	}
	return &d
}
