// Package graph_test - Invariant violation tests
// These tests INTENTIONALLY wire nodes around the registry to ensure the
// checks notice.
package graph_test

import (
	"strings"
	"testing"

	"routed-values/core/graph"
	"routed-values/core/routed"
)

// escapedGraph registers a and b but wires a to an unregistered node
func escapedGraph(t *testing.T) *graph.Graph[float64] {
	t.Helper()
	g := graph.New[float64]()
	a := routed.NewNumber(routed.WithName("a"))
	b := routed.NewNumber(routed.WithName("b"))
	_ = g.Add(a)
	_ = g.Add(b)
	if err := g.Connect("a", "b"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	a.MustAddChildren(routed.NewNumber(routed.WithName("stray")))
	return g
}

// TestFullCheckPassesOnBuiltGraph verifies a built and driven graph is clean
func TestFullCheckPassesOnBuiltGraph(t *testing.T) {
	g, err := graph.Build(demoDefinition(t), graph.NumberFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_ = g.Set("A1", 2)
	_ = g.Set("B2", 5)
	_ = g.Set("C3", 1)

	checker := graph.NewInvariantChecker(true)
	if err := graph.RunFullCheck(checker, g); err != nil {
		t.Errorf("unexpected violation: %v", err)
	}
	if checker.HasViolations() {
		t.Errorf("unexpected violations %+v", checker.GetViolations())
	}
}

// TestInvariantCheckerPermissive verifies permissive checker records violations
func TestInvariantCheckerPermissive(t *testing.T) {
	checker := graph.NewInvariantChecker(false)

	// Should not panic
	err := graph.RunFullCheck(checker, escapedGraph(t))
	if err == nil {
		t.Fatal("RunFullCheck should report the unregistered neighbour")
	}
	if !strings.Contains(err.Error(), "REGISTRY_CLOSED") || !strings.Contains(err.Error(), "stray") {
		t.Errorf("unexpected error %v", err)
	}

	violations := checker.GetViolations()
	if len(violations) != 1 || violations[0].Location != "a" {
		t.Errorf("unexpected violations %+v", violations)
	}
}

// TestInvariantCheckerStrict verifies strict checker panics
func TestInvariantCheckerStrict(t *testing.T) {
	checker := graph.NewInvariantChecker(true)

	defer func() {
		r := recover()
		if r == nil {
			t.Error("RunFullCheck did not panic in strict mode")
			return
		}
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "INVARIANT VIOLATED [REGISTRY_CLOSED]") {
			t.Errorf("panicked with wrong message: %v", r)
		}
	}()

	_ = graph.RunFullCheck(checker, escapedGraph(t))
}

// TestIndividualAssertions exercises each assertion on a healthy pair
func TestIndividualAssertions(t *testing.T) {
	parent := routed.NewNumber(routed.WithName("p"))
	child := routed.NewNumber(routed.WithName("c"), routed.WithStrategy(routed.Descending))
	parent.MustAddChildren(child)
	parent.SetLocalValue(-3)

	checker := graph.NewInvariantChecker(true)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"symmetric parent", func() error { return graph.AssertEdgesSymmetric(checker, parent) }},
		{"symmetric child", func() error { return graph.AssertEdgesSymmetric(checker, child) }},
		{"acyclic", func() error { return graph.AssertAcyclic(checker, child) }},
		{"value not beaten", func() error { return graph.AssertValueNotBeaten(checker, child) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err != nil {
				t.Errorf("unexpected violation: %v", err)
			}
		})
	}

	if child.Value() != -3 {
		t.Errorf("descending child should take the smaller parent value, got %v", child.Value())
	}
}
