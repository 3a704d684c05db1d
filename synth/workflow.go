package synth

import (
	"bytes"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/stacksynth/stacksynth/construct"
)

// EmitWorkflow serializes a resolved document as YAML. Mapping keys keep
// their exact declared order, scalar typing is preserved (numbers and
// bools are not quoted into strings), and foreign expression text is
// emitted verbatim with only the quoting yaml's own grammar requires.
func EmitWorkflow(d Document) ([]byte, error) {
	node, err := yamlNode(d.Name, d.Root)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encoding workflow %q: %w", d.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlNode(path string, v construct.Value) (*yaml.Node, error) {
	switch tv := v.(type) {
	case construct.Literal:
		return yamlScalar(tv)
	case construct.Interp:
		return yamlString(tv.Src), nil
	case construct.Foreign:
		return yamlString(tv.Raw), nil
	case construct.List:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for i, elem := range tv {
			child, err := yamlNode(fmt.Sprintf("%s[%d]", path, i), elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *construct.Object:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range tv.Keys() {
			child, err := yamlNode(path+"."+key, tv.Get(key))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlString(key), child)
		}
		return node, nil
	case *construct.Token:
		return nil, &construct.UnresolvedTokenError{Path: path, Token: tv}
	case construct.Concat:
		return nil, unresolvedConcat(path, tv)
	default:
		return nil, &construct.UnresolvedTokenError{Path: path}
	}
}

func yamlScalar(lit construct.Literal) (*yaml.Node, error) {
	val := lit.Val
	switch {
	case val.IsNull():
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case val.Type() == cty.String:
		return yamlString(val.AsString()), nil
	case val.Type() == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", i)}, nil
		}
		f, _ := bf.Float64()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%g", f)}, nil
	case val.Type() == cty.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", val.True())}, nil
	default:
		return nil, fmt.Errorf("unsupported literal type %s", val.Type().FriendlyName())
	}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
