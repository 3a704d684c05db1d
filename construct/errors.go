package construct

import "fmt"

// DanglingReferenceError indicates a token embedded in an input whose
// owning node does not exist in the same tree.
type DanglingReferenceError struct {
	// NodeID is the node whose input carries the bad token. Empty when
	// the token occurs in a document rather than a resource input.
	NodeID string
	// Path is the dotted attribute path at which the token occurs.
	Path string
	// Token is the offending token.
	Token *Token
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference at %s: token %s refers to a node outside this tree", e.Path, e.Token)
}

// SelfReferenceError indicates a node whose input references one of its
// own output tokens.
type SelfReferenceError struct {
	NodeID string
	Path   string
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("self reference at %s: node %q depends on its own output", e.Path, e.NodeID)
}

// UnresolvedTokenError indicates a token that survived all the way to
// document emission. Resolution always precedes emission, so this is an
// internal invariant violation rather than a user error.
type UnresolvedTokenError struct {
	Path  string
	Token *Token
}

func (e *UnresolvedTokenError) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("unresolved token %s at %s: tree was not resolved before emission", e.Token, e.Path)
	}
	return fmt.Sprintf("unresolved token at %s: tree was not resolved before emission", e.Path)
}
