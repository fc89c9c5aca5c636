package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// A list line has the grammar
//
//	line       = name [ sep note [ sep coordinates ] ]
//	sep        = whitespace "—" whitespace
//	coordinates = number "," number
//
// Segments after the third are ignored. A bad coordinates segment leaves the
// candidate without a coordinate but keeps its name and note.

// ListSeparator is written between segments by FormatList
const ListSeparator = " — "

const emDash = '—'

var (
	lineSplitRe   = regexp.MustCompile(`(\r?\n)+`)
	lineBreakRe   = regexp.MustCompile(`\s*[\r\n]+\s*`)
	coordinatesRe = regexp.MustCompile(`^\s*([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)\s*$`)
)

// ParseList parses free-form list text into candidates, one per non-empty line
func ParseList(text string) []Candidate {
	lines := lineSplitRe.Split(text, -1)
	candidates := make([]Candidate, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates = append(candidates, parseLine(line))
	}

	return candidates
}

func parseLine(line string) Candidate {
	segments := splitSegments(line)

	name := strings.TrimSpace(segments[0])
	if name == "" {
		name = line
	}

	c := Candidate{Name: name}
	if len(segments) > 1 {
		c.Note = strings.TrimSpace(segments[1])
	}
	if len(segments) > 2 {
		c.Coordinate = ParseCoordinates(segments[2])
	}
	return c
}

// splitSegments cuts a line at every em-dash that has whitespace on both sides
func splitSegments(line string) []string {
	runes := []rune(line)
	segments := make([]string, 0, 3)
	start := 0

	for i, r := range runes {
		if r != emDash || i == 0 || i == len(runes)-1 {
			continue
		}
		if !unicode.IsSpace(runes[i-1]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		segments = append(segments, string(runes[start:i]))
		start = i + 1
	}

	return append(segments, string(runes[start:]))
}

// ParseCoordinates parses "lat,lng". Anything else yields nil.
func ParseCoordinates(s string) *Coordinate {
	m := coordinatesRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}

	return NewCoordinate(lat, lng)
}

// FormatList writes candidates back in the list grammar understood by ParseList
func FormatList(candidates []Candidate) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, FormatLine(c))
	}
	return strings.Join(lines, "\n")
}

// FormatLine writes one candidate as a list line
func FormatLine(c Candidate) string {
	var b strings.Builder
	b.WriteString(formatSegment(c.Name))

	note := formatSegment(c.Note)
	switch {
	case c.Coordinate != nil:
		b.WriteString(ListSeparator)
		if note != "" {
			b.WriteString(note)
			b.WriteString(ListSeparator)
		} else {
			// the separators share the single space between the dashes
			b.WriteString("— ")
		}
		fmt.Fprintf(&b, "%.6f,%.6f", c.Coordinate.Lat, c.Coordinate.Lng)
	case note != "":
		b.WriteString(ListSeparator)
		b.WriteString(note)
	}

	return b.String()
}

// formatSegment makes a name or note safe to write as one segment: line
// breaks become a space and any em-dash that would read as a separator
// becomes a hyphen.
func formatSegment(s string) string {
	s = strings.TrimSpace(lineBreakRe.ReplaceAllString(s, " "))

	runes := []rune(s)
	for i, r := range runes {
		if r != emDash {
			continue
		}
		// segment edges sit next to the separator's own whitespace
		before := i == 0 || unicode.IsSpace(runes[i-1])
		after := i == len(runes)-1 || unicode.IsSpace(runes[i+1])
		if before && after {
			runes[i] = '-'
		}
	}
	return string(runes)
}
