// Package demo wires the fixed three-level demonstration tree.
//
//	A1 ─┬─ B1 ─┬─ C1
//	    │      └─ C2
//	    └─ B2 ─┬─ C3
//	           └─ C4
package demo

import (
	"sort"

	"go.uber.org/zap"

	"routed-values/core/graph"
	"routed-values/core/routed"
	"routed-values/internal/errors"
)

// Listener receives derived value notifications from every tree node
type Listener func(value float64, node *routed.Node[float64])

// Command mutates the tree
type Command func(t *Tree)

// Tree holds the demo nodes. All nodes use the ascending strategy.
type Tree struct {
	A1 *routed.Node[float64]
	B1 *routed.Node[float64]
	B2 *routed.Node[float64]
	C1 *routed.Node[float64]
	C2 *routed.Node[float64]
	C3 *routed.Node[float64]
	C4 *routed.Node[float64]

	graph    *graph.Graph[float64]
	commands map[string]Command
}

// NewTree builds the tree. A nil listener is allowed; a nil logger
// disables node logging.
func NewTree(listener Listener, logger *zap.Logger) *Tree {
	node := func(name string) *routed.Node[float64] {
		n := routed.NewNumber(routed.WithName(name), routed.WithLogger(logger))
		if listener != nil {
			n.OnValueChanged(listener)
		}
		return n
	}

	t := &Tree{}
	t.A1 = node("A1")
	t.B1 = node("B1")
	t.B2 = node("B2")
	t.A1.MustAddChildren(t.B1, t.B2)

	t.C1 = node("C1")
	t.C2 = node("C2")
	t.B1.MustAddChildren(t.C1, t.C2)

	t.C3 = node("C3")
	t.C4 = node("C4")
	t.B2.MustAddChildren(t.C3, t.C4)

	t.graph = graph.New[float64]()
	for _, n := range t.Nodes() {
		if err := t.graph.Add(n); err != nil {
			panic(errors.Internal("demo tree registration failed", err))
		}
	}

	t.commands = map[string]Command{
		"tapA1":  func(t *Tree) { tap(t.A1) },
		"tapB1":  func(t *Tree) { tap(t.B1) },
		"tapB2":  func(t *Tree) { tap(t.B2) },
		"resetA": func(t *Tree) { reset(t.A1) },
		"resetB": func(t *Tree) { reset(t.B1, t.B2) },
		"resetC": func(t *Tree) { reset(t.C1, t.C2, t.C3, t.C4) },
	}
	return t
}

// Run executes the named command
func (t *Tree) Run(name string) error {
	cmd, ok := t.commands[name]
	if !ok {
		return errors.UnknownCommand(name)
	}
	cmd(t)
	return nil
}

// Commands returns the command names, sorted
func (t *Tree) Commands() []string {
	names := make([]string, 0, len(t.commands))
	for name := range t.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Nodes returns the nodes in display order
func (t *Tree) Nodes() []*routed.Node[float64] {
	return []*routed.Node[float64]{t.A1, t.B1, t.B2, t.C1, t.C2, t.C3, t.C4}
}

// Graph returns the tree as a named graph
func (t *Tree) Graph() *graph.Graph[float64] {
	return t.graph
}

func tap(n *routed.Node[float64]) {
	n.SetLocalValue(n.LocalValue() + 1)
}

func reset(nodes ...*routed.Node[float64]) {
	for _, n := range nodes {
		n.SetLocalValue(0)
	}
}
