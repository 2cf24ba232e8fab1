package graph

import (
	"routed-values/core/routed"
	"routed-values/internal/errors"
)

// Graph is a registry of routed nodes addressed by name.
// Like the nodes it holds, a Graph is not safe for concurrent use.
type Graph[T any] struct {
	nodes map[string]*routed.Node[T]
	order []string
}

// Entry is a point-in-time view of one node
type Entry[T any] struct {
	Name       string   `json:"name"`
	Strategy   string   `json:"strategy"`
	LocalValue T        `json:"local_value"`
	Value      T        `json:"value"`
	Parents    []string `json:"parents,omitempty"`
	Children   []string `json:"children,omitempty"`
}

// New creates an empty graph
func New[T any]() *Graph[T] {
	return &Graph[T]{
		nodes: make(map[string]*routed.Node[T]),
	}
}

// Add registers n under its name
func (g *Graph[T]) Add(n *routed.Node[T]) error {
	if n == nil {
		return errors.Input("cannot add nil node")
	}
	if _, ok := g.nodes[n.Name()]; ok {
		return errors.Newf(errors.TypeTopology, "duplicate node %q", n.Name())
	}
	g.nodes[n.Name()] = n
	g.order = append(g.order, n.Name())
	return nil
}

// Node returns the node registered under name
func (g *Graph[T]) Node(name string) (*routed.Node[T], bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// MustNode returns the node registered under name or panics
func (g *Graph[T]) MustNode(name string) *routed.Node[T] {
	n, ok := g.nodes[name]
	if !ok {
		panic(errors.UnknownNode(name))
	}
	return n
}

// Names returns node names in registration order
func (g *Graph[T]) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes
func (g *Graph[T]) Len() int {
	return len(g.order)
}

// Roots returns the names of nodes without parents, in registration order
func (g *Graph[T]) Roots() []string {
	var roots []string
	for _, name := range g.order {
		if len(g.nodes[name].Parents()) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// Connect adds the edge parent -> child
func (g *Graph[T]) Connect(parent, child string) error {
	p, ok := g.nodes[parent]
	if !ok {
		return errors.UnknownNode(parent)
	}
	c, ok := g.nodes[child]
	if !ok {
		return errors.UnknownNode(child)
	}
	_, err := p.AddChildren(c)
	return err
}

// Set assigns the local value of the named node
func (g *Graph[T]) Set(name string, v T) error {
	n, ok := g.nodes[name]
	if !ok {
		return errors.UnknownNode(name)
	}
	n.SetLocalValue(v)
	return nil
}

// Snapshot returns every node in registration order
func (g *Graph[T]) Snapshot() []Entry[T] {
	entries := make([]Entry[T], 0, len(g.order))
	for _, name := range g.order {
		n := g.nodes[name]
		entries = append(entries, Entry[T]{
			Name:       name,
			Strategy:   n.Strategy().String(),
			LocalValue: n.LocalValue(),
			Value:      n.Value(),
			Parents:    nodeNames(n.Parents()),
			Children:   nodeNames(n.Children()),
		})
	}
	return entries
}

// Observe subscribes o to every node currently in the graph
func (g *Graph[T]) Observe(o routed.Observer[T]) []routed.Subscription {
	subs := make([]routed.Subscription, 0, len(g.order))
	for _, name := range g.order {
		subs = append(subs, g.nodes[name].Subscribe(o))
	}
	return subs
}

func nodeNames[T any](nodes []*routed.Node[T]) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
