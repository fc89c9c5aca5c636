package clipboard

import (
	"errors"
	"testing"
)

func TestDiscard(t *testing.T) {
	if err := (Discard{}).WriteAll("[]"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Discard.WriteAll() error = %v, want ErrUnsupported", err)
	}
}

func TestSystem(t *testing.T) {
	c, err := NewSystem()
	if err != nil {
		t.Skip("no clipboard on this host")
	}
	// headless CI hosts may have the binary but no display
	if err := c.WriteAll(`["Taco Town"]`); err != nil {
		t.Skipf("clipboard write unavailable: %v", err)
	}
}
