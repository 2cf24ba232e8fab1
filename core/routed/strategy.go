package routed

import (
	"fmt"
	"strings"
)

// Strategy decides whether a parent's value replaces a node's own value.
type Strategy int

const (
	// Ascending takes the parent value if it is greater
	Ascending Strategy = iota

	// Descending takes the parent value if it is smaller
	Descending
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name into a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascending", "asc", "max":
		return Ascending, nil
	case "descending", "desc", "min":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown strategy %q", name)
	}
}

// takesParent reports whether a comparison result of own against parent
// lets the parent win.
func (s Strategy) takesParent(cmp int) bool {
	switch s {
	case Ascending:
		return cmp < 0 // parent is greater
	case Descending:
		return cmp > 0 // own value is greater
	default:
		return false
	}
}
