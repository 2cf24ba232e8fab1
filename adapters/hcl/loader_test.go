package hcl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"routed-values/adapters/hcl"
	"routed-values/core/graph"
	"routed-values/core/routed"
	"routed-values/internal/errors"
)

const demoTopology = `
kind = "number"

node "A1" {
  value    = 0
  children = [B1, B2]
}

node "B1" {
  children = ["C1", "C2"]
}

node "B2" {
  strategy = "descending"
}

node "C1" {}
node "C2" {}

node "C3" {
  parents = [B2]
  value   = 1.25
}

node "C4" {
  parents = [B2]
}
`

func TestParseTopology(t *testing.T) {
	def, err := hcl.NewLoader(nil).Parse([]byte(demoTopology), "demo.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if def.Kind != graph.KindNumber {
		t.Errorf("expected kind number, got %q", def.Kind)
	}

	var names []string
	for _, n := range def.Nodes() {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"A1", "B1", "B2", "C1", "C2", "C3", "C4"}, names); diff != "" {
		t.Errorf("nodes (-want +got):\n%s", diff)
	}

	a1, _ := def.Node("A1")
	if !a1.HasValue || a1.Value != "0" {
		t.Errorf("A1 value = %q (set %v)", a1.Value, a1.HasValue)
	}
	if a1.SourceFile != "demo.hcl" || a1.SourceLine != 4 {
		t.Errorf("A1 location = %s:%d", a1.SourceFile, a1.SourceLine)
	}

	c3, _ := def.Node("C3")
	if c3.Value != "1.25" {
		t.Errorf("C3 value = %q", c3.Value)
	}

	b2, _ := def.Node("B2")
	if b2.Strategy != "descending" {
		t.Errorf("B2 strategy = %q", b2.Strategy)
	}

	want := []graph.Edge{
		{Parent: "A1", Child: "B1"},
		{Parent: "A1", Child: "B2"},
		{Parent: "B1", Child: "C1"},
		{Parent: "B1", Child: "C2"},
		{Parent: "B2", Child: "C3"},
		{Parent: "B2", Child: "C4"},
	}
	if diff := cmp.Diff(want, def.Edges()); diff != "" {
		t.Errorf("edges (-want +got):\n%s", diff)
	}
}

func TestParsedTopologyBuilds(t *testing.T) {
	def, err := hcl.NewLoader(nil).Parse([]byte(demoTopology), "demo.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := graph.Build(def, graph.NumberFactory(nil), routed.Ascending)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := g.Set("A1", 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := g.MustNode("C1").Value(); got != 3 {
		t.Errorf("C1 = %v, want 3", got)
	}
	// B2 is descending: its own 0 beats the parent's 3.
	if got := g.MustNode("B2").Value(); got != 0 {
		t.Errorf("B2 = %v, want 0", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name:     "syntax",
			src:      `node "a" {`,
			contains: []string{"bad.hcl:1"},
		},
		{
			name:     "unknown kind",
			src:      `kind = "colour"`,
			contains: []string{"colour"},
		},
		{
			name:     "unknown attribute",
			src:      "node \"a\" {\n  weight = 3\n}\n",
			contains: []string{"bad.hcl:2", "weight"},
		},
		{
			name:     "non string strategy",
			src:      `node "a" { strategy = 4 }`,
			contains: []string{"string is required"},
		},
		{
			name:     "list value",
			src:      `node "a" { value = [1] }`,
			contains: []string{"unsupported value type"},
		},
		{
			name:     "undeclared reference",
			src:      `node "a" { children = [ghost] }`,
			contains: []string{"ghost"},
		},
		{
			name:     "duplicate node",
			src:      "node \"a\" {}\nnode \"a\" {}\n",
			contains: []string{"duplicate"},
		},
		{
			name:     "several problems",
			src:      "node \"a\" { strategy = \"up\" }\nnode \"b\" { parents = [nobody] }\n",
			contains: []string{"up", "nobody"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hcl.NewLoader(nil).Parse([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsType(err, errors.TypeTopology) {
				t.Errorf("expected topology error, got %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestParseSelfReference(t *testing.T) {
	_, err := hcl.NewLoader(nil).Parse([]byte(`node "a" { parents = [a] }`), "self.hcl")
	if !routed.IsGraphCycle(err) {
		t.Errorf("expected graph cycle error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.hcl")
	if err := os.WriteFile(path, []byte(demoTopology), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := hcl.NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(def.Nodes()) != 7 {
		t.Errorf("expected 7 nodes, got %d", len(def.Nodes()))
	}

	_, err = hcl.NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	if !errors.IsType(err, errors.TypeTopology) {
		t.Errorf("expected topology error, got %v", err)
	}
}
