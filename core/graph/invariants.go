// Package graph - Invariant assertions
// These assertions verify a live graph after it has been wired.
package graph

import (
	"fmt"

	"routed-values/core/routed"
)

// InvariantViolation represents a detected invariant violation
type InvariantViolation struct {
	Invariant string
	Location  string
	Details   string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("INVARIANT VIOLATED [%s] at %s: %s", v.Invariant, v.Location, v.Details)
}

// InvariantChecker records violations; in strict mode the first one panics
type InvariantChecker struct {
	violations []InvariantViolation
	strictMode bool
}

// NewInvariantChecker creates a checker
func NewInvariantChecker(strictMode bool) *InvariantChecker {
	return &InvariantChecker{
		violations: []InvariantViolation{},
		strictMode: strictMode,
	}
}

// AssertEdgesSymmetric asserts that n is a child of each of its parents
// and a parent of each of its children
func AssertEdgesSymmetric[T any](c *InvariantChecker, n *routed.Node[T]) error {
	for _, p := range n.Parents() {
		if !containsNode(p.Children(), n) {
			return c.fail("EDGES_SYMMETRIC", n.Name(),
				fmt.Sprintf("parent %s does not list it as a child", p.Name()))
		}
	}
	for _, ch := range n.Children() {
		if !containsNode(ch.Parents(), n) {
			return c.fail("EDGES_SYMMETRIC", n.Name(),
				fmt.Sprintf("child %s does not list it as a parent", ch.Name()))
		}
	}
	return nil
}

// AssertAcyclic asserts that n is not its own ancestor
func AssertAcyclic[T any](c *InvariantChecker, n *routed.Node[T]) error {
	seen := make(map[*routed.Node[T]]bool)
	stack := n.Parents()
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p == n {
			return c.fail("ACYCLIC", n.Name(), "node is its own ancestor")
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		stack = append(stack, p.Parents()...)
	}
	return nil
}

// AssertValueNotBeaten asserts that no parent value would replace the
// derived value of n
func AssertValueNotBeaten[T any](c *InvariantChecker, n *routed.Node[T]) error {
	v := n.Value()
	for _, p := range n.Parents() {
		if n.ShouldTakeParentValue(p.Value(), v) {
			return c.fail("VALUE_NOT_BEATEN", n.Name(),
				fmt.Sprintf("parent %s value %v beats derived value %v", p.Name(), p.Value(), v))
		}
	}
	return nil
}

// AssertRegistryClosed asserts every neighbour of a registered node is
// registered under the same name
func AssertRegistryClosed[T any](c *InvariantChecker, g *Graph[T], n *routed.Node[T]) error {
	neighbours := append(n.Parents(), n.Children()...)
	for _, m := range neighbours {
		if reg, ok := g.Node(m.Name()); !ok || reg != m {
			return c.fail("REGISTRY_CLOSED", n.Name(),
				fmt.Sprintf("neighbour %s is not registered in the graph", m.Name()))
		}
	}
	return nil
}

func (c *InvariantChecker) fail(invariant, location, details string) error {
	v := InvariantViolation{
		Invariant: invariant,
		Location:  location,
		Details:   details,
	}
	c.violations = append(c.violations, v)

	if c.strictMode {
		panic(v.Error())
	}
	return &v
}

// GetViolations returns all recorded violations
func (c *InvariantChecker) GetViolations() []InvariantViolation {
	return c.violations
}

// HasViolations returns true if any violations occurred
func (c *InvariantChecker) HasViolations() bool {
	return len(c.violations) > 0
}

// RunFullCheck runs every invariant check on every node of g and
// returns the first violation
func RunFullCheck[T any](c *InvariantChecker, g *Graph[T]) error {
	var first error
	for _, name := range g.Names() {
		n := g.MustNode(name)
		for _, check := range []error{
			AssertEdgesSymmetric(c, n),
			AssertAcyclic(c, n),
			AssertValueNotBeaten(c, n),
			AssertRegistryClosed(c, g, n),
		} {
			if check != nil && first == nil {
				first = check
			}
		}
	}
	return first
}

func containsNode[T any](nodes []*routed.Node[T], n *routed.Node[T]) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}
