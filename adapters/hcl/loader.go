// Package hcl provides routed graph topology parsing from HCL files.
//
//	kind = "number"
//
//	node "A1" {
//	  strategy = "ascending"
//	  value    = 0
//	  children = [B1, B2]
//	}
package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"routed-values/core/graph"
	"routed-values/internal/errors"
)

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "kind"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "node", LabelNames: []string{"name"}},
	},
}

var nodeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "strategy"},
		{Name: "value"},
		{Name: "children"},
		{Name: "parents"},
	},
}

// Loader turns HCL topology files into graph definitions
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader; a nil logger disables logging
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads and parses the topology file at path
func (l *Loader) LoadFile(path string) (*graph.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Topology("failed to read topology file", err).WithContext("path", path)
	}
	return l.Parse(src, path)
}

// Parse parses topology source. Every syntax, schema and reference
// problem is reported, not only the first one.
func (l *Loader) Parse(src []byte, filename string) (*graph.Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagErrors(diags)
	}

	content, diags := file.Body.Content(fileSchema)
	var err error
	err = multierr.Append(err, diagErrors(diags))

	def := graph.NewDefinition("")
	if attr, ok := content.Attributes["kind"]; ok {
		kindName, kdiags := stringValue(attr.Expr)
		if kdiags.HasErrors() {
			err = multierr.Append(err, diagErrors(kdiags))
		} else if kind, kerr := graph.ParseKind(kindName); kerr != nil {
			err = multierr.Append(err, errors.Wrapf(errors.TypeTopology, kerr, "%s", rangeText(attr.Range)))
		} else {
			def.Kind = kind
		}
	}

	for _, block := range content.Blocks {
		nd, berr := l.parseNode(block)
		if berr != nil {
			err = multierr.Append(err, berr)
			continue
		}
		if aerr := def.AddNode(nd); aerr != nil {
			err = multierr.Append(err, aerr)
		}
	}

	err = multierr.Append(err, def.Validate())
	if err != nil {
		return nil, err
	}

	l.logger.Debug("topology parsed",
		zap.String("file", filename),
		zap.String("kind", string(def.Kind)),
		zap.Int("nodes", len(def.Nodes())))
	return def, nil
}

func (l *Loader) parseNode(block *hcl.Block) (*graph.NodeDef, error) {
	nd := &graph.NodeDef{
		Name:       block.Labels[0],
		SourceFile: block.DefRange.Filename,
		SourceLine: block.DefRange.Start.Line,
	}

	content, diags := block.Body.Content(nodeSchema)
	if diags.HasErrors() {
		return nil, diagErrors(diags)
	}

	if attr, ok := content.Attributes["strategy"]; ok {
		s, d := stringValue(attr.Expr)
		diags = append(diags, d...)
		nd.Strategy = s
	}

	if attr, ok := content.Attributes["value"]; ok {
		val, d := attr.Expr.Value(nil)
		diags = append(diags, d...)
		if !d.HasErrors() {
			text, verr := valueText(val)
			if verr != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid node value",
					Detail:   verr.Error(),
					Subject:  attr.Expr.Range().Ptr(),
				})
			} else {
				nd.Value = text
				nd.HasValue = true
			}
		}
	}

	if attr, ok := content.Attributes["children"]; ok {
		names, d := nameList(attr.Expr)
		diags = append(diags, d...)
		nd.Children = names
	}

	if attr, ok := content.Attributes["parents"]; ok {
		names, d := nameList(attr.Expr)
		diags = append(diags, d...)
		nd.Parents = names
	}

	if diags.HasErrors() {
		return nil, diagErrors(diags)
	}
	return nd, nil
}

// diagErrors converts error diagnostics into topology errors
func diagErrors(diags hcl.Diagnostics) error {
	var err error
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		where := "<unknown>"
		if diag.Subject != nil {
			where = rangeText(*diag.Subject)
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		err = multierr.Append(err, errors.Newf(errors.TypeTopology, "%s: %s", where, msg))
	}
	return err
}

func rangeText(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
