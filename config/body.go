package config

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/stacksynth/stacksynth/construct"
)

// decodeBody turns a free-form HCL body into an ordered object value.
// Attributes and nested blocks are interleaved in source order, which is
// what keeps the emitted documents in the exact order the author wrote.
// A labeled block contributes a nested entry: `job "build" { ... }`
// becomes job -> build -> { ... }, and repeated labeled blocks of one
// type merge under the shared type key.
func (l *loader) decodeBody(body *hclsyntax.Body) (*construct.Object, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	obj := construct.NewObject()

	type item struct {
		attr   *hclsyntax.Attribute
		block  *hclsyntax.Block
		offset int
	}
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, item{attr: attr, offset: attr.SrcRange.Start.Byte})
	}
	for _, block := range body.Blocks {
		items = append(items, item{block: block, offset: block.TypeRange.Start.Byte})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	for _, it := range items {
		if it.attr != nil {
			v, exprDiags := l.decodeExpr(it.attr.Expr)
			diags = append(diags, exprDiags...)
			if v != nil {
				obj.Set(it.attr.Name, v)
			}
			continue
		}

		block := it.block
		nested, blockDiags := l.decodeBody(block.Body)
		diags = append(diags, blockDiags...)

		switch len(block.Labels) {
		case 0:
			obj.Set(block.Type, nested)
		case 1:
			group, ok := obj.Get(block.Type).(*construct.Object)
			if !ok {
				group = construct.NewObject()
				obj.Set(block.Type, group)
			}
			group.Set(block.Labels[0], nested)
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Too many block labels",
				Detail:   "Nested blocks may carry at most one label.",
				Subject:  block.DefRange().Ptr(),
			})
		}
	}
	return obj, diags
}
