package domain

import "strings"

// Choice is a single swipe decision
type Choice string

const (
	ChoiceLike Choice = "like"
	ChoicePass Choice = "pass"
)

// ParseChoice accepts "like" or "pass" in any case
func ParseChoice(s string) (Choice, error) {
	switch Choice(strings.ToLower(strings.TrimSpace(s))) {
	case ChoiceLike:
		return ChoiceLike, nil
	case ChoicePass:
		return ChoicePass, nil
	default:
		return "", ErrInvalidChoice
	}
}

// String returns the string representation of the choice
func (c Choice) String() string {
	return string(c)
}
