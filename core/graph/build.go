package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"routed-values/core/routed"
	"routed-values/internal/errors"
)

// Factory creates nodes and parses textual values for one value kind
type Factory[T any] struct {
	// New creates a node
	New func(opts ...routed.Option) *routed.Node[T]

	// Parse converts text (HCL literals, --set flags) into a value
	Parse func(text string) (T, error)

	// Format renders a value for display
	Format func(v T) string

	// Logger receives build and node debug logs; nil disables logging
	Logger *zap.Logger
}

// NumberFactory builds float64 graphs
func NumberFactory(logger *zap.Logger) Factory[float64] {
	return Factory[float64]{
		New: routed.NewNumber,
		Parse: func(text string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(text), 64)
		},
		Format: func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		Logger: logger,
	}
}

// DecimalFactory builds exact-decimal graphs
func DecimalFactory(logger *zap.Logger) Factory[decimal.Decimal] {
	return Factory[decimal.Decimal]{
		New: routed.NewDecimal,
		Parse: func(text string) (decimal.Decimal, error) {
			return decimal.NewFromString(strings.TrimSpace(text))
		},
		Format: decimal.Decimal.String,
		Logger: logger,
	}
}

// TrafficFactory builds traffic light graphs
func TrafficFactory(logger *zap.Logger) Factory[routed.TrafficLight] {
	return Factory[routed.TrafficLight]{
		New:    routed.NewTrafficState,
		Parse:  routed.ParseTrafficLight,
		Format: routed.TrafficLight.String,
		Logger: logger,
	}
}

// Build validates def and creates a live graph from it. Nodes are
// created in declaration order and receive their initial local value
// before any edge exists; edges are then wired in the order returned by
// Definition.Edges. A strategy left empty in def uses defaultStrategy.
func Build[T any](def *Definition, f Factory[T], defaultStrategy routed.Strategy) (*Graph[T], error) {
	if err := def.Validate(); err != nil {
		return nil, errors.Topology("invalid graph definition", err)
	}

	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	g := New[T]()
	for _, nd := range def.Nodes() {
		strategy := defaultStrategy
		if nd.Strategy != "" {
			s, err := routed.ParseStrategy(nd.Strategy)
			if err != nil {
				return nil, errors.Wrapf(errors.TypeTopology, err, "node %q", nd.Name)
			}
			strategy = s
		}

		n := f.New(routed.WithName(nd.Name), routed.WithStrategy(strategy), routed.WithLogger(logger))
		if nd.HasValue {
			v, err := f.Parse(nd.Value)
			if err != nil {
				return nil, errors.Wrapf(errors.TypeTopology, err, "%s: node %q has invalid value %q", location(nd), nd.Name, nd.Value)
			}
			n.SetLocalValue(v)
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}

	for _, e := range def.Edges() {
		if err := g.Connect(e.Parent, e.Child); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e, err)
		}
		logger.Debug("edge wired", zap.String("parent", e.Parent), zap.String("child", e.Child))
	}

	if err := RunFullCheck(NewInvariantChecker(false), g); err != nil {
		return nil, errors.Internal("graph invariant violated", err)
	}

	logger.Debug("graph built",
		zap.Int("nodes", g.Len()),
		zap.Int("edges", len(def.Edges())),
		zap.Strings("roots", g.Roots()))
	return g, nil
}
