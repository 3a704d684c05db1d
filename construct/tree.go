package construct

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// Tree is the arena that owns every resource node and document in a stack
// definition. Nodes are addressed by their string id rather than held by
// pointer from one another, so cross-references between nodes never imply
// shared ownership; a token reaching into another node is only a weak
// back-reference that the tree itself keeps alive.
type Tree struct {
	nodes    []*Node
	index    map[string]*Node
	docs     []*Doc
	docIndex map[string]*Doc
}

// NewTree returns an empty construct tree.
func NewTree() *Tree {
	return &Tree{
		index:    make(map[string]*Node),
		docIndex: make(map[string]*Doc),
	}
}

// Node is a single declared resource: a type, a stable id, a mapping of
// input attributes and a mapping of output tokens. Inputs are set during
// tree construction and must not change afterwards.
type Node struct {
	tree *Tree
	id   string
	typ  string

	inputKeys []string
	inputs    map[string]Value
	outputs   map[string]*Token
}

// Doc is a named free-form value tree, typically a workflow document,
// that is resolved and emitted alongside the resource plan. Documents may
// reference resource tokens but do not themselves take part in the
// dependency graph.
type Doc struct {
	name string
	root Value
}

// AddResource declares a new resource node. The id must be unique within
// the tree; declaration order is remembered and used to keep synthesis
// output deterministic.
func (t *Tree) AddResource(typ, id string) (*Node, error) {
	if _, exists := t.index[id]; exists {
		return nil, fmt.Errorf("duplicate resource id %q", id)
	}
	n := &Node{
		tree:    t,
		id:      id,
		typ:     typ,
		inputs:  make(map[string]Value),
		outputs: make(map[string]*Token),
	}
	t.nodes = append(t.nodes, n)
	t.index[id] = n
	return n, nil
}

// AddDoc attaches a named document whose root value may mix literals,
// tokens and foreign expressions. Token references are checked against
// this tree immediately.
func (t *Tree) AddDoc(name string, root Value) (*Doc, error) {
	if _, exists := t.docIndex[name]; exists {
		return nil, fmt.Errorf("duplicate document name %q", name)
	}
	err := WalkTokens(name, root, func(path string, tok *Token) error {
		if tok.owner.tree != t {
			return &DanglingReferenceError{Path: path, Token: tok}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d := &Doc{name: name, root: root}
	t.docs = append(t.docs, d)
	t.docIndex[name] = d
	return d, nil
}

// Node returns the node with the given id, if it exists.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Docs returns all documents in declaration order.
func (t *Tree) Docs() []*Doc {
	return t.docs
}

// ID returns the node's id.
func (n *Node) ID() string {
	return n.id
}

// Type returns the node's resource type.
func (n *Node) Type() string {
	return n.typ
}

// SetInput assigns an input attribute. Any token embedded in v must be
// owned by a node in the same tree; a token from elsewhere fails with a
// DanglingReferenceError naming the offending attribute path.
func (n *Node) SetInput(name string, v Value) error {
	err := WalkTokens(n.id+"."+name, v, func(path string, tok *Token) error {
		if tok.owner.tree != n.tree {
			return &DanglingReferenceError{NodeID: n.id, Path: path, Token: tok}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if _, ok := n.inputs[name]; !ok {
		n.inputKeys = append(n.inputKeys, name)
	}
	n.inputs[name] = v
	return nil
}

// InputKeys returns input attribute names in declaration order.
func (n *Node) InputKeys() []string {
	return n.inputKeys
}

// Input returns the value of the named input, or nil.
func (n *Node) Input(name string) Value {
	return n.inputs[name]
}

// Output returns the token standing for the named output attribute,
// creating it on first use. Repeated calls with the same attribute return
// the same token.
func (n *Node) Output(attribute string) *Token {
	if tok, ok := n.outputs[attribute]; ok {
		return tok
	}
	tok := newToken(n, attribute)
	n.outputs[attribute] = tok
	return tok
}

// Name returns the document's name.
func (d *Doc) Name() string {
	return d.name
}

// Root returns the document's root value.
func (d *Doc) Root() Value {
	return d.root
}

// Validate re-checks the structural invariants over the whole tree: every
// token must be owned by a node present in this tree, and no node may
// reference its own outputs. All violations are collected rather than
// stopping at the first.
func (t *Tree) Validate() error {
	var errs *multierror.Error
	for _, n := range t.nodes {
		for _, key := range n.inputKeys {
			err := WalkTokens(n.id+"."+key, n.inputs[key], func(path string, tok *Token) error {
				switch {
				case tok.owner.tree != t:
					errs = multierror.Append(errs, &DanglingReferenceError{NodeID: n.id, Path: path, Token: tok})
				case tok.owner == n:
					errs = multierror.Append(errs, &SelfReferenceError{NodeID: n.id, Path: path})
				}
				return nil
			})
			if err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	for _, d := range t.docs {
		err := WalkTokens(d.name, d.root, func(path string, tok *Token) error {
			if tok.owner.tree != t {
				errs = multierror.Append(errs, &DanglingReferenceError{Path: path, Token: tok})
			}
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
