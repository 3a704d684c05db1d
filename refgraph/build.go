package refgraph

import (
	"github.com/stacksynth/stacksynth/construct"
)

// Build computes the reference graph for a construct tree. Every token
// occurrence in a node's inputs becomes an edge from that node to the
// token's owner; repeated references collapse to one edge. Tokens inside
// documents are resolved later but create no edges, since documents are
// not provisioned.
//
// A node referencing its own output fails with a SelfReferenceError, and
// a token owned by a node outside the tree fails with a
// DanglingReferenceError, both naming the offending attribute path.
func Build(t *construct.Tree) (*Graph, error) {
	g := NewGraph()
	for _, n := range t.Nodes() {
		g.Add(n.ID())
	}

	for _, n := range t.Nodes() {
		for _, key := range n.InputKeys() {
			err := construct.WalkTokens(n.ID()+"."+key, n.Input(key), func(path string, tok *construct.Token) error {
				owner := tok.Owner()
				if owner == n {
					return &construct.SelfReferenceError{NodeID: n.ID(), Path: path}
				}
				if got, ok := t.Node(owner.ID()); !ok || got != owner {
					return &construct.DanglingReferenceError{NodeID: n.ID(), Path: path, Token: tok}
				}
				g.Connect(n.ID(), owner.ID())
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
