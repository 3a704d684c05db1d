package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/stacksynth/stacksynth/construct"
)

// decodeExpr statically maps an attribute expression onto a construct
// value. Nothing is evaluated against resource state here: traversals
// become deferred tokens and templates become composed strings whose
// parts stay separate until resolution.
func (l *loader) decodeExpr(expr hclsyntax.Expression) (construct.Value, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return literalValue(e.Val, e.SrcRange)

	case *hclsyntax.TemplateWrapExpr:
		return l.decodeExpr(e.Wrapped)

	case *hclsyntax.ScopeTraversalExpr:
		return l.tokenForTraversal(e.Traversal)

	case *hclsyntax.TemplateExpr:
		if e.IsStringLiteral() {
			val, _ := e.Value(nil)
			return construct.Literal{Val: val}, nil
		}
		var diags hcl.Diagnostics
		parts := make(construct.Concat, 0, len(e.Parts))
		for _, part := range e.Parts {
			v, partDiags := l.decodeExpr(part)
			diags = append(diags, partDiags...)
			if v != nil {
				parts = append(parts, v)
			}
		}
		return parts, diags

	case *hclsyntax.FunctionCallExpr:
		return l.decodeCall(e)

	case *hclsyntax.TupleConsExpr:
		var diags hcl.Diagnostics
		list := make(construct.List, 0, len(e.Exprs))
		for _, elem := range e.Exprs {
			v, elemDiags := l.decodeExpr(elem)
			diags = append(diags, elemDiags...)
			if v != nil {
				list = append(list, v)
			}
		}
		return list, diags

	case *hclsyntax.ObjectConsExpr:
		var diags hcl.Diagnostics
		obj := construct.NewObject()
		for _, item := range e.Items {
			key, keyDiags := objectKey(item.KeyExpr)
			diags = append(diags, keyDiags...)
			if keyDiags.HasErrors() {
				continue
			}
			v, valDiags := l.decodeExpr(item.ValueExpr)
			diags = append(diags, valDiags...)
			if v != nil {
				obj.Set(key, v)
			}
		}
		return obj, diags

	default:
		// Anything else must be a constant expression we can fold now.
		val, valDiags := expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsupported expression",
				Detail:   "Stack attribute values may be literals, resource references, templates, lists, objects, or gha() expressions.",
				Subject:  expr.Range().Ptr(),
			}}
		}
		return literalValue(val, expr.Range())
	}
}

// decodeCall handles the one function the stack language offers: gha()
// wraps its argument into a foreign "${{ ... }}" expression that the
// resolver passes through untouched.
func (l *loader) decodeCall(e *hclsyntax.FunctionCallExpr) (construct.Value, hcl.Diagnostics) {
	if e.Name != "gha" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown function",
			Detail:   fmt.Sprintf("There is no function named %q. Only gha() is available in stack definitions.", e.Name),
			Subject:  e.NameRange.Ptr(),
		}}
	}
	if len(e.Args) != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid gha() call",
			Detail:   "gha() takes exactly one string argument.",
			Subject:  e.Range().Ptr(),
		}}
	}
	val, valDiags := e.Args[0].Value(nil)
	if valDiags.HasErrors() || val.IsNull() || val.Type() != cty.String {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid gha() argument",
			Detail:   "The argument to gha() must be a constant string.",
			Subject:  e.Args[0].Range().Ptr(),
		}}
	}
	return construct.Foreign{Raw: "${{ " + val.AsString() + " }}"}, nil
}

// tokenForTraversal maps type.name.attr onto the referenced resource's
// output token.
func (l *loader) tokenForTraversal(tr hcl.Traversal) (construct.Value, hcl.Diagnostics) {
	rng := tr.SourceRange()
	if len(tr) < 3 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid resource reference",
			Detail:   "A reference must name a resource type, name and attribute, like aws_iam_role.runner.arn.",
			Subject:  rng.Ptr(),
		}}
	}

	second, ok := tr[1].(hcl.TraverseAttr)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid resource reference",
			Detail:   "Resource references may not be indexed.",
			Subject:  rng.Ptr(),
		}}
	}
	addr := tr.RootName() + "." + second.Name

	node, ok := l.nodes[addr]
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Reference to undeclared resource",
			Detail:   fmt.Sprintf("No resource %q is declared in this stack.", addr),
			Subject:  rng.Ptr(),
		}}
	}

	attrParts := make([]string, 0, len(tr)-2)
	for _, step := range tr[2:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid resource reference",
				Detail:   "Resource attributes may not be indexed.",
				Subject:  rng.Ptr(),
			}}
		}
		attrParts = append(attrParts, attr.Name)
	}
	return node.Output(strings.Join(attrParts, ".")), nil
}

func objectKey(keyExpr hclsyntax.Expression) (string, hcl.Diagnostics) {
	val, valDiags := keyExpr.Value(nil)
	if valDiags.HasErrors() || val.IsNull() || val.Type() != cty.String {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid object key",
			Detail:   "Object keys in stack definitions must be constant strings.",
			Subject:  keyExpr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}

func literalValue(val cty.Value, rng hcl.Range) (construct.Value, hcl.Diagnostics) {
	if val.IsNull() {
		return construct.Null(), nil
	}
	switch val.Type() {
	case cty.String, cty.Number, cty.Bool:
		return construct.Literal{Val: val}, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		list := construct.List{}
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			lv, diags := literalValue(ev, rng)
			if diags.HasErrors() {
				return nil, diags
			}
			list = append(list, lv)
		}
		return list, nil
	}
	if s, err := convert.Convert(val, cty.String); err == nil {
		return construct.Literal{Val: s}, nil
	}
	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported literal",
		Detail:   fmt.Sprintf("A %s value cannot be used in a stack definition.", val.Type().FriendlyName()),
		Subject:  rng.Ptr(),
	}}
}
