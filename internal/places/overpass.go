// Package places queries the OpenStreetMap Overpass API for restaurants near
// an origin and normalises the response into list candidates.
package places

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"placeswipe/internal/domain"
)

const (
	// MetersPerMile converts the user's radius for the Overpass around: filter
	MetersPerMile = 1609.344

	// MinRadiusMeters is the smallest radius ever sent upstream
	MinRadiusMeters = 100

	// DefaultMaxResults caps the number of elements Overpass returns
	DefaultMaxResults = 120
)

// Response is the subset of an Overpass JSON document we read
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is a node or way. Ways carry their position in Center.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the centroid Overpass computes for area features
type Center struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// RadiusMeters converts miles to whole meters with a floor of MinRadiusMeters
func RadiusMeters(radiusMi float64) int {
	m := int(math.Round(radiusMi * MetersPerMile))
	if m < MinRadiusMeters {
		return MinRadiusMeters
	}
	return m
}

// BuildQuery returns the Overpass QL for restaurants and cuisine-tagged
// venues within meters of lat,lng, with centroids for ways
func BuildQuery(lat, lng float64, meters, max int) string {
	around := fmt.Sprintf("around:%d,%v,%v", meters, lat, lng)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	fmt.Fprintf(&b, "  node(%s)[amenity=restaurant];\n", around)
	fmt.Fprintf(&b, "  way(%s)[amenity=restaurant];\n", around)
	fmt.Fprintf(&b, "  node(%s)[cuisine];\n", around)
	fmt.Fprintf(&b, "  way(%s)[cuisine];\n", around)
	b.WriteString(");\n")
	fmt.Fprintf(&b, "out center %d;\n", max)
	return b.String()
}

// Normalize turns raw elements into candidates: unnamed or unplaced elements
// are dropped, duplicates (same lowercased name at ~11m) keep the first, and
// the result is sorted nearest first.
func Normalize(origin domain.Coordinate, elements []Element) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(elements))
	seen := make(map[string]struct{}, len(elements))

	for _, el := range elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}

		coord := el.coordinate()
		if coord == nil {
			continue
		}

		key := fmt.Sprintf("%s@%.4f,%.4f", strings.ToLower(name), coord.Lat, coord.Lng)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		candidates = append(candidates, domain.Candidate{
			Name:       name,
			Note:       buildNote(el.Tags),
			Coordinate: coord,
		})
	}

	sortByDistance(origin, candidates)
	return candidates
}

// coordinate prefers the element's own position and falls back to its centroid
func (el Element) coordinate() *domain.Coordinate {
	lat, lon := el.Lat, el.Lon
	if lat == nil && el.Center != nil {
		lat = el.Center.Lat
	}
	if lon == nil && el.Center != nil {
		lon = el.Center.Lon
	}
	if lat == nil || lon == nil {
		return nil
	}
	return domain.NewCoordinate(*lat, *lon)
}

// buildNote joins cuisine and street address with a middle dot
func buildNote(tags map[string]string) string {
	bits := make([]string, 0, 2)

	if cuisine := strings.ReplaceAll(tags["cuisine"], "_", " "); cuisine != "" {
		bits = append(bits, cuisine)
	}

	if street := tags["addr:street"]; street != "" {
		if number := tags["addr:housenumber"]; number != "" {
			bits = append(bits, number+" "+street)
		} else {
			bits = append(bits, street)
		}
	}

	return strings.Join(bits, " · ")
}

// unknownDistance sorts candidates without a distance after everything else
const unknownDistance = 1e9

func sortByDistance(origin domain.Coordinate, candidates []domain.Candidate) {
	distanceOf := func(c domain.Candidate) float64 {
		if d, ok := domain.Distance(&origin, c.Coordinate); ok {
			return d
		}
		return unknownDistance
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return distanceOf(candidates[i]) < distanceOf(candidates[j])
	})
}
