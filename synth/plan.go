package synth

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/stacksynth/stacksynth/construct"
)

// EmitPlan serializes the resolved resources into the provisioning
// system's native HCL format: one resource block per node in declaration
// order, attributes in declared order. Literal scalars keep their types,
// interpolation strings are written as real template expressions, and
// foreign expression text is written as a plain quoted string with only
// the escaping HCL's own grammar demands.
func EmitPlan(p *Plan) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, res := range p.Resources {
		if i > 0 {
			body.AppendNewline()
		}
		// Stack-file nodes are addressed as "type.name"; the block label
		// is just the name part.
		label := strings.TrimPrefix(res.ID, res.Type+".")
		block := body.AppendNewBlock("resource", []string{res.Type, label})
		for _, key := range res.Attrs.Keys() {
			toks, err := valueTokens(res.ID+"."+key, res.Attrs.Get(key))
			if err != nil {
				return nil, err
			}
			block.Body().SetAttributeRaw(key, toks)
		}
	}
	return f.Bytes(), nil
}

func valueTokens(path string, v construct.Value) (hclwrite.Tokens, error) {
	switch tv := v.(type) {
	case construct.Literal:
		return hclwrite.TokensForValue(tv.Val), nil
	case construct.Interp:
		return templateTokens(tv), nil
	case construct.Foreign:
		return hclwrite.TokensForValue(cty.StringVal(tv.Raw)), nil
	case construct.List:
		elems := make([]hclwrite.Tokens, len(tv))
		for i, elem := range tv {
			toks, err := valueTokens(path, elem)
			if err != nil {
				return nil, err
			}
			elems[i] = toks
		}
		return hclwrite.TokensForTuple(elems), nil
	case *construct.Object:
		attrs := make([]hclwrite.ObjectAttrTokens, 0, tv.Len())
		for _, key := range tv.Keys() {
			toks, err := valueTokens(path+"."+key, tv.Get(key))
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, hclwrite.ObjectAttrTokens{
				Name:  hclwrite.TokensForValue(cty.StringVal(key)),
				Value: toks,
			})
		}
		return hclwrite.TokensForObject(attrs), nil
	case *construct.Token:
		return nil, &construct.UnresolvedTokenError{Path: path, Token: tv}
	case construct.Concat:
		return nil, unresolvedConcat(path, tv)
	default:
		return nil, &construct.UnresolvedTokenError{Path: path}
	}
}

// unresolvedConcat digs the first token out of an unresolved composed
// string so the invariant violation names something concrete.
func unresolvedConcat(path string, parts construct.Concat) error {
	var first *construct.Token
	construct.WalkTokens(path, parts, func(_ string, tok *construct.Token) error {
		if first == nil {
			first = tok
		}
		return nil
	})
	return &construct.UnresolvedTokenError{Path: path, Token: first}
}

// templateTokens renders an interpolation string as a quoted HCL
// template. When the resolver recorded segments, live "${...}" references
// are copied through as interpolation while everything else, including
// user literals that happen to contain "${" and foreign "${{" text, is
// escaped so it survives as literal text. An Interp without segments is a
// raw escape hatch and is scanned instead: "${...}" stays live, "${{" and
// "%{" are escaped.
func templateTokens(interp construct.Interp) hclwrite.Tokens {
	var out []byte
	if len(interp.Segments) == 0 {
		out = scanTemplate(interp.Src)
	} else {
		for _, seg := range interp.Segments {
			if seg.Live {
				out = append(out, seg.Text...)
			} else {
				out = appendTemplateLiteral(out, seg.Text)
			}
		}
	}
	return hclwrite.Tokens{
		{Type: hclsyntax.TokenOQuote, Bytes: []byte(`"`)},
		{Type: hclsyntax.TokenQuotedLit, Bytes: out},
		{Type: hclsyntax.TokenCQuote, Bytes: []byte(`"`)},
	}
}

// appendTemplateLiteral escapes verbatim text for use inside a quoted
// HCL template: "${" and "%{" are doubled so they never open a template
// sequence, and string-literal escapes are applied.
func appendTemplateLiteral(out []byte, s string) []byte {
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "${"):
			out = append(out, "$${"...)
			i += 2
		case strings.HasPrefix(s[i:], "%{"):
			out = append(out, "%%{"...)
			i += 2
		default:
			switch s[i] {
			case '"':
				out = append(out, '\\', '"')
			case '\\':
				out = append(out, '\\', '\\')
			case '\n':
				out = append(out, '\\', 'n')
			default:
				out = append(out, s[i])
			}
			i++
		}
	}
	return out
}

func scanTemplate(src string) []byte {
	var out []byte
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "${{"):
			out = append(out, "$${{"...)
			i += 3
		case strings.HasPrefix(src[i:], "${"):
			// Live interpolation: copy verbatim through the matching
			// close brace.
			depth := 0
			j := i
			for ; j < len(src); j++ {
				if src[j] == '{' {
					depth++
				} else if src[j] == '}' {
					depth--
					if depth == 0 {
						j++
						break
					}
				}
			}
			out = append(out, src[i:j]...)
			i = j
		case strings.HasPrefix(src[i:], "%{"):
			out = append(out, "%%{"...)
			i += 2
		default:
			switch src[i] {
			case '"':
				out = append(out, '\\', '"')
			case '\\':
				out = append(out, '\\', '\\')
			case '\n':
				out = append(out, '\\', 'n')
			default:
				out = append(out, src[i])
			}
			i++
		}
	}
	return out
}
