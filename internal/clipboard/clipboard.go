// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard is available on this host
var ErrUnsupported = errors.New("clipboard: not available")

// System writes to the operating system clipboard
type System struct{}

// NewSystem returns the system clipboard, or ErrUnsupported when the host
// has no clipboard utility
func NewSystem() (System, error) {
	if clipboard.Unsupported {
		return System{}, ErrUnsupported
	}
	return System{}, nil
}

// WriteAll replaces the clipboard contents with text
func (System) WriteAll(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Discard accepts and drops text; used when the clipboard is disabled
type Discard struct{}

// WriteAll always reports ErrUnsupported so callers can fall back to showing the
// text instead
func (Discard) WriteAll(string) error {
	return ErrUnsupported
}
