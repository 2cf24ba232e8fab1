// Package output provides output formatting interfaces.
// This package produces human and machine-readable views of routed graphs.
package output

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"routed-values/core/graph"
	"routed-values/core/routed"
	"routed-values/core/ui"
	"routed-values/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat converts a format name into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCLI, FormatJSON:
		return f, nil
	default:
		return "", errors.Newf(errors.TypeInput, "unknown output format %q", s)
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is a rendered view of a graph
type Result struct {
	// Kind is the value kind of the graph
	Kind graph.Kind `json:"kind"`

	// Source names where the topology came from
	Source string `json:"source,omitempty"`

	// Nodes are the node states in registration order
	Nodes []NodeState `json:"nodes"`

	// Changes are the notifications observed while the graph was driven
	Changes []ChangeRecord `json:"changes,omitempty"`
}

// NodeState is the state of one node. Values keep their JSON form so
// numbers stay numbers and decimals stay exact.
type NodeState struct {
	Name       string          `json:"name"`
	Strategy   string          `json:"strategy"`
	LocalValue json.RawMessage `json:"local_value"`
	Value      json.RawMessage `json:"value"`
	Parents    []string        `json:"parents,omitempty"`
	Children   []string        `json:"children,omitempty"`

	// LocalDisplay and Display are the human-readable values
	LocalDisplay string `json:"-"`
	Display      string `json:"-"`
}

// ChangeRecord is one observed notification
type ChangeRecord struct {
	Seq     int             `json:"seq"`
	Node    string          `json:"node"`
	Kind    string          `json:"kind"`
	Value   json.RawMessage `json:"value"`
	Display string          `json:"-"`
}

// FromGraph captures the current state of g
func FromGraph[T any](g *graph.Graph[T], kind graph.Kind, display func(T) string) (*Result, error) {
	res := &Result{Kind: kind, Nodes: []NodeState{}}
	for _, e := range g.Snapshot() {
		local, err := json.Marshal(e.LocalValue)
		if err != nil {
			return nil, errors.Internal("failed to encode local value", err).WithContext("node", e.Name)
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, errors.Internal("failed to encode value", err).WithContext("node", e.Name)
		}
		res.Nodes = append(res.Nodes, NodeState{
			Name:         e.Name,
			Strategy:     e.Strategy,
			LocalValue:   local,
			Value:        value,
			Parents:      e.Parents,
			Children:     e.Children,
			LocalDisplay: display(e.LocalValue),
			Display:      display(e.Value),
		})
	}
	return res, nil
}

// Recorder collects change notifications as ChangeRecords
type Recorder[T any] struct {
	display func(T) string
	records []ChangeRecord
	err     error
}

// NewRecorder creates a recorder rendering values with display
func NewRecorder[T any](display func(T) string) *Recorder[T] {
	return &Recorder[T]{display: display}
}

// OnChange implements routed.Observer
func (r *Recorder[T]) OnChange(c routed.Change[T]) {
	raw, err := json.Marshal(c.Value)
	if err != nil {
		if r.err == nil {
			r.err = errors.Internal("failed to encode change", err).WithContext("node", c.Node.Name())
		}
		return
	}
	r.records = append(r.records, ChangeRecord{
		Seq:     len(r.records) + 1,
		Node:    c.Node.Name(),
		Kind:    c.Kind.String(),
		Value:   raw,
		Display: r.display(c.Value),
	})
}

// Records returns the collected changes and the first encoding error
func (r *Recorder[T]) Records() ([]ChangeRecord, error) {
	return r.records, r.err
}

// Registry holds the formatters by format
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the cli and json formatters
func NewRegistry(noColor bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(&CLIFormatter{NoColor: noColor})
	_ = r.Register(&JSONFormatter{Indent: true})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	if _, ok := r.formatters[f.Format()]; ok {
		return errors.Newf(errors.TypeInternal, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// GetAll returns all registered formatters, sorted by format
func (r *Registry) GetAll() []Formatter {
	all := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Format() < all[j].Format() })
	return all
}

// CLIFormatter renders a table
type CLIFormatter struct {
	NoColor bool
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the change log (if any) and the node table
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	uw := ui.NewWriter(w, f.NoColor)

	title := "Routed values"
	if result.Source != "" {
		title += ": " + result.Source
	}
	uw.Header(title)

	if len(result.Changes) > 0 {
		uw.SubHeader("Changes")
		for _, c := range result.Changes {
			kind := routed.ValueChanged
			if c.Kind == routed.LocalValueChanged.String() {
				kind = routed.LocalValueChanged
			}
			uw.Change(c.Node, kind, f.value(uw, result.Kind, c.Display))
		}
		uw.Println("")
	}

	table := uw.NewTable("Node", "Strategy", "Local", "Value", "Parents")
	for _, n := range result.Nodes {
		table.AddRow(n.Name, n.Strategy,
			f.value(uw, result.Kind, n.LocalDisplay),
			f.value(uw, result.Kind, n.Display),
			strings.Join(n.Parents, ", "))
	}
	table.Render()
	return nil
}

func (f *CLIFormatter) value(uw *ui.Writer, kind graph.Kind, display string) string {
	if kind != graph.KindTraffic {
		return display
	}
	l, err := routed.ParseTrafficLight(display)
	if err != nil {
		return display
	}
	return uw.Light(l)
}

// JSONFormatter renders the result as JSON
type JSONFormatter struct {
	Indent bool
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the result as a single JSON document
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return errors.Internal("failed to encode result", err)
	}
	return nil
}
