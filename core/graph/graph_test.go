package graph_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"routed-values/core/graph"
	"routed-values/core/routed"
	"routed-values/internal/errors"
)

func demoDefinition(t *testing.T) *graph.Definition {
	t.Helper()
	def := graph.NewDefinition(graph.KindNumber)
	decls := []*graph.NodeDef{
		{Name: "A1", Children: []string{"B1", "B2"}},
		{Name: "B1", Children: []string{"C1", "C2"}},
		{Name: "B2"},
		{Name: "C1"},
		{Name: "C2"},
		{Name: "C3", Parents: []string{"B2"}},
		{Name: "C4", Parents: []string{"B2"}},
	}
	for _, d := range decls {
		if err := def.AddNode(d); err != nil {
			t.Fatalf("AddNode(%s): %v", d.Name, err)
		}
	}
	return def
}

func valuesOf[T any](g *graph.Graph[T]) map[string]T {
	out := make(map[string]T)
	for _, e := range g.Snapshot() {
		out[e.Name] = e.Value
	}
	return out
}

func TestBuildAndPropagate(t *testing.T) {
	g, err := graph.Build(demoDefinition(t), graph.NumberFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if diff := cmp.Diff([]string{"A1"}, g.Roots()); diff != "" {
		t.Errorf("roots (-want +got):\n%s", diff)
	}

	if err := g.Set("A1", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Set("B1", 5); err != nil {
		t.Fatalf("Set: %v", err)
	}

	want := map[string]float64{"A1": 1, "B1": 5, "B2": 1, "C1": 5, "C2": 5, "C3": 1, "C4": 1}
	if diff := cmp.Diff(want, valuesOf(g)); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}

	snap := g.Snapshot()
	if snap[0].Name != "A1" || snap[0].Strategy != "ascending" {
		t.Errorf("unexpected first entry %+v", snap[0])
	}
	if diff := cmp.Diff([]string{"B1", "B2"}, snap[0].Children); diff != "" {
		t.Errorf("A1 children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B2"}, snap[5].Parents); diff != "" {
		t.Errorf("C3 parents (-want +got):\n%s", diff)
	}
}

func TestBuildInitialValuesBeforeEdges(t *testing.T) {
	def := graph.NewDefinition(graph.KindNumber)
	_ = def.AddNode(&graph.NodeDef{Name: "low", Value: "2", HasValue: true, Strategy: "descending", Parents: []string{"high"}})
	_ = def.AddNode(&graph.NodeDef{Name: "high", Value: "9", HasValue: true})

	g, err := graph.Build(def, graph.NumberFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	low := g.MustNode("low")
	if low.Strategy() != routed.Descending {
		t.Errorf("expected descending, got %s", low.Strategy())
	}
	if low.Value() != 2 {
		t.Errorf("descending node should keep the smaller value, got %v", low.Value())
	}
	if g.MustNode("high").Value() != 9 {
		t.Errorf("expected 9, got %v", g.MustNode("high").Value())
	}
}

func TestBuildDefaultStrategy(t *testing.T) {
	def := graph.NewDefinition(graph.KindNumber)
	_ = def.AddNode(&graph.NodeDef{Name: "a", Value: "3", HasValue: true, Children: []string{"b"}})
	_ = def.AddNode(&graph.NodeDef{Name: "b", Value: "7", HasValue: true})

	g, err := graph.Build(def, graph.NumberFactory(nil), routed.Descending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := g.MustNode("b").Value(); got != 3 {
		t.Errorf("expected min 3, got %v", got)
	}
}

func TestBuildDecimalAndTraffic(t *testing.T) {
	def := graph.NewDefinition(graph.KindDecimal)
	_ = def.AddNode(&graph.NodeDef{Name: "budget", Value: "10.05", HasValue: true, Children: []string{"team"}})
	_ = def.AddNode(&graph.NodeDef{Name: "team", Value: "3.10", HasValue: true})

	dg, err := graph.Build(def, graph.DecimalFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build decimal: %v", err)
	}
	if got := dg.MustNode("team").Value().String(); got != "10.05" {
		t.Errorf("expected 10.05, got %s", got)
	}

	tdef := graph.NewDefinition(graph.KindTraffic)
	_ = tdef.AddNode(&graph.NodeDef{Name: "site", Value: "warning", HasValue: true, Children: []string{"rack"}})
	_ = tdef.AddNode(&graph.NodeDef{Name: "rack", Value: "ok", HasValue: true})

	tg, err := graph.Build(tdef, graph.TrafficFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build traffic: %v", err)
	}
	if got := tg.MustNode("rack").Value(); got != routed.TrafficWarning {
		t.Errorf("expected warning, got %s", got)
	}
}

func TestBuildRejectsCycle(t *testing.T) {
	def := graph.NewDefinition(graph.KindNumber)
	_ = def.AddNode(&graph.NodeDef{Name: "a", Children: []string{"b"}})
	_ = def.AddNode(&graph.NodeDef{Name: "b", Children: []string{"c"}})
	_ = def.AddNode(&graph.NodeDef{Name: "c", Children: []string{"a"}})

	_, err := graph.Build(def, graph.NumberFactory(nil), routed.Ascending)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !routed.IsGraphCycle(err) {
		t.Errorf("expected graph cycle error, got %v", err)
	}
	if !strings.Contains(err.Error(), "c -> a") {
		t.Errorf("expected failing edge in message, got %q", err.Error())
	}
}

func TestValidateAggregatesProblems(t *testing.T) {
	def := graph.NewDefinition(graph.KindNumber)
	_ = def.AddNode(&graph.NodeDef{Name: "a", Strategy: "sideways", Children: []string{"ghost"}})
	_ = def.AddNode(&graph.NodeDef{Name: "b", Parents: []string{"b", "phantom"}})

	err := def.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"sideways", "ghost", "phantom", "references itself"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
	if !errors.IsType(err, errors.TypeGraphCycle) || !errors.IsType(err, errors.TypeTopology) {
		t.Errorf("expected both topology and cycle problems, got %v", err)
	}

	if _, err := graph.Build(def, graph.NumberFactory(nil), routed.Ascending); err == nil {
		t.Error("Build should refuse an invalid definition")
	}
}

func TestBuildRejectsBadValue(t *testing.T) {
	def := graph.NewDefinition(graph.KindNumber)
	_ = def.AddNode(&graph.NodeDef{Name: "a", Value: "lots", HasValue: true})

	_, err := graph.Build(def, graph.NumberFactory(nil), routed.Ascending)
	if !errors.IsType(err, errors.TypeTopology) {
		t.Errorf("expected topology error, got %v", err)
	}
}

func TestDefinitionDuplicatesAndEdges(t *testing.T) {
	def := graph.NewDefinition("")
	if err := def.AddNode(&graph.NodeDef{Name: "p", Children: []string{"c"}}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := def.AddNode(&graph.NodeDef{Name: "c", Parents: []string{"p"}}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := def.AddNode(&graph.NodeDef{Name: "p"}); !errors.IsType(err, errors.TypeTopology) {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if err := def.AddNode(&graph.NodeDef{}); err == nil {
		t.Error("expected error for empty name")
	}

	want := []graph.Edge{{Parent: "p", Child: "c"}}
	if diff := cmp.Diff(want, def.Edges()); diff != "" {
		t.Errorf("edges (-want +got):\n%s", diff)
	}
}

func TestRegistryErrors(t *testing.T) {
	g := graph.New[float64]()
	a := routed.NewNumber(routed.WithName("a"))
	if err := g.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add(routed.NewNumber(routed.WithName("a"))); err == nil {
		t.Error("expected duplicate name error")
	}
	if err := g.Add(nil); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected input error, got %v", err)
	}
	if err := g.Connect("a", "zz"); !errors.IsType(err, errors.TypeUnknownNode) {
		t.Errorf("expected unknown node error, got %v", err)
	}
	if err := g.Set("zz", 1); !errors.IsType(err, errors.TypeUnknownNode) {
		t.Errorf("expected unknown node error, got %v", err)
	}
	if _, ok := g.Node("zz"); ok {
		t.Error("unexpected node zz")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustNode did not panic")
		}
	}()
	g.MustNode("zz")
}

func TestObserve(t *testing.T) {
	g, err := graph.Build(demoDefinition(t), graph.NumberFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := map[string]bool{}
	subs := g.Observe(routed.ObserverFunc[float64](func(c routed.Change[float64]) {
		if c.Kind == routed.ValueChanged {
			seen[c.Node.Name()] = true
		}
	}))
	if len(subs) != g.Len() {
		t.Fatalf("expected %d subscriptions, got %d", g.Len(), len(subs))
	}

	_ = g.Set("B2", 4)
	want := map[string]bool{"B2": true, "C3": true, "C4": true}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("notified nodes (-want +got):\n%s", diff)
	}

	for _, s := range subs {
		s.Unsubscribe()
	}
	seen = map[string]bool{}
	_ = g.Set("A1", 9)
	if len(seen) != 0 {
		t.Errorf("expected no notifications after unsubscribe, got %v", seen)
	}
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"number", "Decimal", " traffic "} {
		if _, err := graph.ParseKind(in); err != nil {
			t.Errorf("ParseKind(%q): %v", in, err)
		}
	}
	if _, err := graph.ParseKind("colour"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
