// Package hcl - Safe CTY value conversion
// Attribute values are converted to text without losing precision;
// unknown, null and unsupported values are rejected, never guessed.
package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// valueText converts a scalar cty value into the textual form the graph
// factories parse. Numbers keep their full decimal precision.
func valueText(val cty.Value) (string, error) {
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return "", fmt.Errorf("value is null")
	}

	switch val.Type() {
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case cty.String:
		return val.AsString(), nil
	default:
		return "", fmt.Errorf("unsupported value type %s", val.Type().FriendlyName())
	}
}

// stringValue evaluates expr as a plain string without variables
func stringValue(expr hcl.Expression) (string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if !val.IsKnown() || val.IsNull() || val.Type() != cty.String {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("A string is required, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}

// nameList reads a list of node names. Elements may be quoted strings
// ("B1") or bare identifiers (B1).
func nameList(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if traversal, tdiags := hcl.AbsTraversalForExpr(e); !tdiags.HasErrors() && len(traversal) == 1 {
			names = append(names, traversal.RootName())
			continue
		}
		name, sdiags := stringValue(e)
		diags = append(diags, sdiags...)
		if !sdiags.HasErrors() {
			names = append(names, name)
		}
	}
	return names, diags
}
