package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Overlap returns the names in mine whose normalised form appears in theirs.
// Order and duplicates of mine are kept.
func Overlap(mine, theirs []string) []string {
	theirSet := make(map[string]struct{}, len(theirs))
	for _, name := range theirs {
		theirSet[NormalizeName(name)] = struct{}{}
	}

	both := make([]string, 0)
	for _, name := range mine {
		if _, ok := theirSet[NormalizeName(name)]; ok {
			both = append(both, name)
		}
	}
	return both
}

// ParsePartnerLikes decodes a partner's liked names from a pasted JSON array.
// Blank input is an empty list.
func ParsePartnerLikes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPartnerLikes, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// EncodeLikes serialises liked names the way partners paste them back
func EncodeLikes(names []string) string {
	if names == nil {
		names = []string{}
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(names)
	return strings.TrimSuffix(b.String(), "\n")
}
