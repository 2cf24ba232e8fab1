package routed

import (
	"fmt"
	"strings"
)

// TrafficLight is a status light ordered by severity
type TrafficLight int

const (
	// TrafficNone means no status (gray)
	TrafficNone TrafficLight = iota

	// TrafficOK is green
	TrafficOK

	// TrafficWarning is yellow
	TrafficWarning

	// TrafficError is red
	TrafficError

	// TrafficFatalError is yellow and red
	TrafficFatalError
)

var trafficNames = []string{"none", "ok", "warning", "error", "fatal_error"}

// String returns the light name
func (l TrafficLight) String() string {
	if l >= 0 && int(l) < len(trafficNames) {
		return trafficNames[l]
	}
	return "unknown"
}

// ParseTrafficLight converts a light name into a TrafficLight
func ParseTrafficLight(s string) (TrafficLight, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if key == "fatalerror" {
		key = "fatal_error"
	}
	for i, name := range trafficNames {
		if name == key {
			return TrafficLight(i), nil
		}
	}
	return TrafficNone, fmt.Errorf("unknown traffic light %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (l TrafficLight) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *TrafficLight) UnmarshalText(text []byte) error {
	v, err := ParseTrafficLight(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// NewTrafficState creates a traffic light node starting at TrafficNone.
// With the default Ascending strategy the most severe light of any
// ancestor wins.
func NewTrafficState(opts ...Option) *Node[TrafficLight] {
	return New[TrafficLight](opts...)
}
