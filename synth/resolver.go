// Package synth turns a validated construct tree into its final
// artifacts: a provisioning plan in HCL and zero or more workflow
// documents in YAML, together with the reference graph that orders the
// plan's application.
package synth

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/stacksynth/stacksynth/construct"
	"github.com/stacksynth/stacksynth/refgraph"
)

// Plan is a fully-resolved construct tree: every token has been rewritten
// into the provisioning system's "${...}" interpolation syntax and every
// composed string has been concatenated. Foreign expressions survive
// verbatim. A Plan contains no deferred values and can be emitted as-is.
type Plan struct {
	Resources []Resource
	Documents []Document
}

// Resource is one resolved resource node, attributes in declared order.
type Resource struct {
	Type  string
	ID    string
	Attrs *construct.Object
}

// Document is one resolved workflow document.
type Document struct {
	Name string
	Root construct.Value
}

// Resolve walks the tree once and returns the resolved plan together
// with the reference graph, which both derive from the same
// token-ownership scan. The graph is built and checked for cycles before
// any substitution happens, so a CyclicDependencyError is reported before
// any node's output is resolved and no partial result escapes.
func Resolve(t *construct.Tree) (*Plan, *refgraph.Graph, error) {
	g, err := refgraph.Build(t)
	if err != nil {
		return nil, nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	r := &resolver{tree: t}
	plan := &Plan{}
	for _, n := range t.Nodes() {
		attrs := construct.NewObject()
		for _, key := range n.InputKeys() {
			rv, err := r.value(n.ID()+"."+key, n.Input(key))
			if err != nil {
				return nil, nil, err
			}
			attrs.Set(key, rv)
		}
		plan.Resources = append(plan.Resources, Resource{
			Type:  n.Type(),
			ID:    n.ID(),
			Attrs: attrs,
		})
	}
	for _, d := range t.Docs() {
		root, err := r.value(d.Name(), d.Root())
		if err != nil {
			return nil, nil, err
		}
		plan.Documents = append(plan.Documents, Document{Name: d.Name(), Root: root})
	}
	return plan, g, nil
}

type resolver struct {
	tree *construct.Tree
}

// value resolves a single value. Resolution is purely syntactic: a token
// becomes the interpolation string for its owner's attribute, never the
// runtime value itself.
func (r *resolver) value(path string, v construct.Value) (construct.Value, error) {
	switch tv := v.(type) {
	case construct.Literal, construct.Foreign, construct.Interp:
		return v, nil
	case *construct.Token:
		src, err := r.tokenRef(path, tv)
		if err != nil {
			return nil, err
		}
		ref := "${" + src + "}"
		return construct.Interp{
			Src:      ref,
			Segments: []construct.InterpSegment{{Text: ref, Live: true}},
		}, nil
	case construct.Concat:
		return r.concat(path, tv)
	case construct.List:
		out := make(construct.List, len(tv))
		for i, elem := range tv {
			rv, err := r.value(fmt.Sprintf("%s[%d]", path, i), elem)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case *construct.Object:
		out := construct.NewObject()
		for _, key := range tv.Keys() {
			rv, err := r.value(path+"."+key, tv.Get(key))
			if err != nil {
				return nil, err
			}
			out.Set(key, rv)
		}
		return out, nil
	case nil:
		return construct.Null(), nil
	default:
		panic(fmt.Sprintf("unhandled value kind %T", v))
	}
}

// concat joins a composed string's parts in declared order. Literal
// fragments keep their text untouched, tokens become interpolation
// syntax, and foreign expressions pass through raw. If no part was
// deferred the result collapses back into a plain string literal;
// otherwise the per-part segments are kept so emitters can still tell a
// literal "${" apart from a substituted reference.
func (r *resolver) concat(path string, parts construct.Concat) (construct.Value, error) {
	var buf strings.Builder
	var segs []construct.InterpSegment
	deferred := false
	for _, part := range parts {
		switch pv := part.(type) {
		case construct.Literal:
			s, err := literalText(pv)
			if err != nil {
				return nil, fmt.Errorf("at %s: %w", path, err)
			}
			buf.WriteString(s)
			segs = append(segs, construct.InterpSegment{Text: s})
		case *construct.Token:
			src, err := r.tokenRef(path, pv)
			if err != nil {
				return nil, err
			}
			ref := "${" + src + "}"
			buf.WriteString(ref)
			segs = append(segs, construct.InterpSegment{Text: ref, Live: true})
			deferred = true
		case construct.Foreign:
			buf.WriteString(pv.Raw)
			segs = append(segs, construct.InterpSegment{Text: pv.Raw})
			deferred = true
		case construct.Interp:
			buf.WriteString(pv.Src)
			if len(pv.Segments) > 0 {
				segs = append(segs, pv.Segments...)
			} else {
				segs = append(segs, construct.InterpSegment{Text: pv.Src, Live: true})
			}
			deferred = true
		case construct.Concat:
			nested, err := r.concat(path, pv)
			if err != nil {
				return nil, err
			}
			switch nv := nested.(type) {
			case construct.Literal:
				buf.WriteString(nv.Val.AsString())
				segs = append(segs, construct.InterpSegment{Text: nv.Val.AsString()})
			case construct.Interp:
				buf.WriteString(nv.Src)
				segs = append(segs, nv.Segments...)
				deferred = true
			}
		default:
			return nil, fmt.Errorf("at %s: cannot compose %T into a string", path, part)
		}
	}
	if deferred {
		return construct.Interp{Src: buf.String(), Segments: segs}, nil
	}
	return construct.Str(buf.String()), nil
}

// tokenRef returns the "owner.attribute" reference for a token, with a
// defensive re-check that the owner still exists in the tree. Tree
// construction already excludes dangling tokens, so a failure here means
// the tree was mutated after validation.
func (r *resolver) tokenRef(path string, tok *construct.Token) (string, error) {
	owner := tok.Owner()
	if got, ok := r.tree.Node(owner.ID()); !ok || got != owner {
		return "", &construct.DanglingReferenceError{Path: path, Token: tok}
	}
	return owner.ID() + "." + tok.Attribute(), nil
}

// literalText renders a scalar literal as the text it contributes to a
// composed string. Numbers and bools convert with cty's standard string
// conversion; null has no textual form and is rejected.
func literalText(lit construct.Literal) (string, error) {
	if lit.Val.IsNull() {
		return "", fmt.Errorf("null literal cannot be part of a composed string")
	}
	s, err := convert.Convert(lit.Val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot compose %s into a string", lit.Val.Type().FriendlyName())
	}
	return s.AsString(), nil
}
