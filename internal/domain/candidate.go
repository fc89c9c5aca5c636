package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Candidate is a place under consideration
type Candidate struct {
	Name       string      `json:"name"`
	Note       string      `json:"note"`
	Coordinate *Coordinate `json:"coordinate"`
	DistanceMi *float64    `json:"distanceMi"`
}

// TrimmedName returns the name used as the identity key for likes
func (c Candidate) TrimmedName() string {
	return strings.TrimSpace(c.Name)
}

// DistanceLabel renders the distance the way the result list shows it
func (c Candidate) DistanceLabel() string {
	if c.DistanceMi == nil {
		return "distance unknown"
	}
	return fmt.Sprintf("%.1f mi away", *c.DistanceMi)
}

// MapURL returns a maps search link for the candidate, or "" without a coordinate
func (c Candidate) MapURL() string {
	if c.Coordinate == nil {
		return ""
	}
	q := url.QueryEscape(fmt.Sprintf("%v,%v", c.Coordinate.Lat, c.Coordinate.Lng))
	return "https://www.google.com/maps/search/?api=1&query=" + q
}

// WithDistanceFrom returns a copy of c annotated with its distance from origin
func (c Candidate) WithDistanceFrom(origin *Coordinate) Candidate {
	c.DistanceMi = DistancePtr(origin, c.Coordinate)
	return c
}
