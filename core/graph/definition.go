// Package graph - Named routed value graphs
// A Definition describes nodes and edges by name; Build turns it into a
// Graph of live routed nodes.
package graph

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"routed-values/core/routed"
	"routed-values/internal/errors"
)

// Kind selects the value type of a graph
type Kind string

const (
	// KindNumber builds float64 nodes
	KindNumber Kind = "number"

	// KindDecimal builds exact-decimal nodes
	KindDecimal Kind = "decimal"

	// KindTraffic builds traffic light nodes
	KindTraffic Kind = "traffic"
)

// ParseKind converts a kind name into a Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindNumber, KindDecimal, KindTraffic:
		return k, nil
	default:
		return "", errors.Newf(errors.TypeInput, "unknown graph kind %q", s)
	}
}

// NodeDef declares one node
type NodeDef struct {
	Name string

	// Strategy is the strategy name; empty means the build default
	Strategy string

	// Value is the textual initial local value, used when HasValue is set
	Value    string
	HasValue bool

	Children []string
	Parents  []string

	SourceFile string
	SourceLine int
}

// Edge is a parent -> child link
type Edge struct {
	Parent string
	Child  string
}

// String returns "parent -> child"
func (e Edge) String() string {
	return e.Parent + " -> " + e.Child
}

// Definition is a declarative graph description
type Definition struct {
	// Kind is the value kind; empty means the build default
	Kind Kind

	nodes  []*NodeDef
	byName map[string]*NodeDef
}

// NewDefinition creates an empty definition
func NewDefinition(kind Kind) *Definition {
	return &Definition{
		Kind:   kind,
		byName: make(map[string]*NodeDef),
	}
}

// AddNode adds a node declaration. Names must be unique and non-empty.
func (d *Definition) AddNode(def *NodeDef) error {
	if def == nil || def.Name == "" {
		return errors.New(errors.TypeTopology, "node name must not be empty")
	}
	if prev, ok := d.byName[def.Name]; ok {
		return errors.Newf(errors.TypeTopology, "duplicate node %q", def.Name).
			WithContext("first", location(prev)).
			WithContext("second", location(def))
	}
	d.nodes = append(d.nodes, def)
	d.byName[def.Name] = def
	return nil
}

// Node returns a node declaration by name
func (d *Definition) Node(name string) (*NodeDef, bool) {
	def, ok := d.byName[name]
	return def, ok
}

// Nodes returns the declarations in declaration order
func (d *Definition) Nodes() []*NodeDef {
	out := make([]*NodeDef, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Edges returns every declared edge in declaration order: for each node
// its children, then its parents. An edge declared from both ends is
// returned once.
func (d *Definition) Edges() []Edge {
	seen := make(map[Edge]bool)
	var edges []Edge
	add := func(e Edge) {
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}
	for _, def := range d.nodes {
		for _, c := range def.Children {
			add(Edge{Parent: def.Name, Child: c})
		}
		for _, p := range def.Parents {
			add(Edge{Parent: p, Child: def.Name})
		}
	}
	return edges
}

// Validate reports every reference to an undeclared node, every self
// edge and every unknown strategy name.
func (d *Definition) Validate() error {
	var err error
	for _, def := range d.nodes {
		if def.Strategy != "" {
			if _, perr := routed.ParseStrategy(def.Strategy); perr != nil {
				err = multierr.Append(err, errors.Wrapf(errors.TypeTopology, perr,
					"%s: node %q", location(def), def.Name))
			}
		}
		for _, ref := range append(append([]string{}, def.Children...), def.Parents...) {
			if ref == def.Name {
				err = multierr.Append(err, errors.Newf(errors.TypeGraphCycle,
					"%s: node %q references itself", location(def), def.Name))
				continue
			}
			if _, ok := d.byName[ref]; !ok {
				err = multierr.Append(err, errors.Newf(errors.TypeTopology,
					"%s: node %q references undeclared node %q", location(def), def.Name, ref))
			}
		}
	}
	return err
}

func location(def *NodeDef) string {
	if def.SourceFile == "" {
		return def.Name
	}
	return fmt.Sprintf("%s:%d", def.SourceFile, def.SourceLine)
}
