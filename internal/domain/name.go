package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a display name for equality comparison only:
//   - compatibility decomposition (NFKD)
//   - combining marks removed
//   - lowercased
//   - whitespace runs collapsed to one space and trimmed
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, name)
	if err != nil {
		// transform only fails on invalid state; fall back to the raw name
		folded = name
	}

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// SameName reports whether two raw names refer to the same place
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
