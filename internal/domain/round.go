package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Round size and radius bounds
const (
	DefaultRoundSize = 10
	MinRoundSize     = 5
	MaxRoundSize     = 50

	DefaultRadiusMi = 10.0
	MinRadiusMi     = 1.0
	MaxRadiusMi     = 50.0
)

// Shuffler permutes n elements in place. *math/rand.Rand implements it with
// Fisher-Yates.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Round is one swipe session over a fixed, ordered candidate sequence
type Round struct {
	ID             string      `json:"id"`
	Candidates     []Candidate `json:"candidates"`
	CurrentIdx     int         `json:"currentIdx"`
	LikedNames     []string    `json:"likedNames"`
	RadiusMi       float64     `json:"radiusMi"`
	RequestedCount int         `json:"requestedCount"`
	Phase          Phase       `json:"phase"`
	StartedAt      time.Time   `json:"startedAt"`
	EndedAt        time.Time   `json:"endedAt,omitempty"`
}

// NewRound builds the candidate sequence for a round: annotate distances from
// origin, keep candidates within radiusMi (or without a known distance),
// shuffle, and take the first count. An empty result is a complete round.
func NewRound(id string, pool []Candidate, origin *Coordinate, count int, radiusMi float64, shuffler Shuffler) *Round {
	count = clampInt(count, MinRoundSize, MaxRoundSize)
	radiusMi = clampFloat(radiusMi, MinRadiusMi, MaxRadiusMi)

	inRange := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		c = c.WithDistanceFrom(origin)
		if c.DistanceMi == nil || *c.DistanceMi <= radiusMi {
			inRange = append(inRange, c)
		}
	}

	shuffler.Shuffle(len(inRange), func(i, j int) {
		inRange[i], inRange[j] = inRange[j], inRange[i]
	})

	if len(inRange) > count {
		inRange = inRange[:count]
	}

	r := &Round{
		ID:             id,
		Candidates:     inRange,
		CurrentIdx:     0,
		LikedNames:     make([]string, 0),
		RadiusMi:       radiusMi,
		RequestedCount: count,
		Phase:          PhaseInProgress,
		StartedAt:      time.Now(),
	}
	if len(r.Candidates) == 0 {
		r.complete()
	}

	return r
}

// Current returns the candidate being voted on
func (r *Round) Current() (Candidate, bool) {
	if r.CurrentIdx >= len(r.Candidates) {
		return Candidate{}, false
	}
	return r.Candidates[r.CurrentIdx], true
}

// Vote records a decision on the current candidate and advances
func (r *Round) Vote(choice Choice) error {
	if r.IsComplete() {
		return ErrRoundComplete
	}
	if choice != ChoiceLike && choice != ChoicePass {
		return ErrInvalidChoice
	}

	if choice == ChoiceLike {
		r.LikedNames = append(r.LikedNames, r.Candidates[r.CurrentIdx].TrimmedName())
	}
	r.CurrentIdx++

	if r.CurrentIdx >= len(r.Candidates) {
		r.complete()
	}
	return nil
}

// IsComplete returns true once every candidate has been voted on
func (r *Round) IsComplete() bool {
	return r.Phase == PhaseComplete
}

// Remaining returns how many candidates are left to vote on
func (r *Round) Remaining() int {
	return len(r.Candidates) - r.CurrentIdx
}

// Progress returns the 1-based position of the current card and the round size
func (r *Round) Progress() (position, total int) {
	total = len(r.Candidates)
	position = r.CurrentIdx + 1
	if position > total {
		position = total
	}
	return position, total
}

// LikedCandidates returns, in round order, every candidate whose name was liked.
// Two candidates sharing a liked name both appear.
func (r *Round) LikedCandidates() []Candidate {
	liked := make(map[string]struct{}, len(r.LikedNames))
	for _, name := range r.LikedNames {
		liked[name] = struct{}{}
	}

	result := make([]Candidate, 0, len(r.LikedNames))
	for _, c := range r.Candidates {
		if _, ok := liked[c.TrimmedName()]; ok {
			result = append(result, c)
		}
	}
	return result
}

// Likes returns a copy of the liked names in voting order
func (r *Round) Likes() []string {
	likes := make([]string, len(r.LikedNames))
	copy(likes, r.LikedNames)
	return likes
}

// Card returns the view of the current candidate, or nil when the round is over
func (r *Round) Card() *CardView {
	c, ok := r.Current()
	if !ok {
		return nil
	}
	position, total := r.Progress()
	return &CardView{
		Candidate:     c,
		DistanceLabel: c.DistanceLabel(),
		MapURL:        c.MapURL(),
		Position:      position,
		Total:         total,
	}
}

// Results returns the results view; meaningful once the round is complete
func (r *Round) Results() *ResultsView {
	summary := "No likes this round"
	if n := len(r.LikedNames); n > 0 {
		summary = fmt.Sprintf("%d liked", n)
	}
	return &ResultsView{
		Summary:  summary,
		Likes:    r.Likes(),
		Liked:    r.LikedCandidates(),
		LikesRaw: EncodeLikes(r.LikedNames),
	}
}

// RangeInfo describes the radius the round was filtered with
func (r *Round) RangeInfo() string {
	return "radius: " + strconv.FormatFloat(r.RadiusMi, 'f', -1, 64) + " mi"
}

func (r *Round) complete() {
	r.Phase = PhaseComplete
	r.EndedAt = time.Now()
}

// ParseRoundSize reads a requested round size the way the setup form does:
// unparseable or zero falls back to the default, then the value is clamped.
func ParseRoundSize(raw string) int {
	n := parseNumberOr(raw, DefaultRoundSize)
	return int(clampFloat(n, MinRoundSize, MaxRoundSize))
}

// ParseRadius reads a requested radius in miles, same rules as ParseRoundSize
func ParseRadius(raw string) float64 {
	r := parseNumberOr(raw, DefaultRadiusMi)
	return clampFloat(r, MinRadiusMi, MaxRadiusMi)
}

// ParseLookupRadius reads the radius for a nearby lookup. Only blank or
// unparseable input falls back to the default; zero clamps up to the minimum.
func ParseLookupRadius(raw string) float64 {
	r, ok := parseNumber(raw)
	if !ok {
		r = DefaultRadiusMi
	}
	return clampFloat(r, MinRadiusMi, MaxRadiusMi)
}

func parseNumberOr(raw string, fallback float64) float64 {
	n, ok := parseNumber(raw)
	if !ok || n == 0 {
		return fallback
	}
	return n
}

// parseNumber accepts decimal numbers. Overflow saturates to ±Inf, but the
// words "Inf" and "Infinity" are not numbers.
func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange):
		return 0, false
	case err == nil && math.IsInf(n, 0):
		return 0, false
	case math.IsNaN(n):
		return 0, false
	}
	return n, true
}

func clampFloat(n, min, max float64) float64 {
	return math.Max(min, math.Min(max, n))
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
