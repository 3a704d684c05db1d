package construct

import "github.com/google/uuid"

// Token is a placeholder for a resource attribute whose value is only
// known after the provisioning engine has run. A token is owned by the
// node that declared the output attribute; any number of other nodes may
// reference it from their inputs. Tokens are immutable once created and
// live exactly as long as their owning tree.
type Token struct {
	id        string
	owner     *Node
	attribute string
	hint      string
}

func newToken(owner *Node, attribute string) *Token {
	return &Token{
		id:        uuid.NewString(),
		owner:     owner,
		attribute: attribute,
		hint:      owner.id + "." + attribute,
	}
}

// ID returns the token's unique identifier.
func (t *Token) ID() string {
	return t.id
}

// Owner returns the node that produced this token.
func (t *Token) Owner() *Node {
	return t.owner
}

// Attribute returns the output attribute name the token stands for.
func (t *Token) Attribute() string {
	return t.attribute
}

// String returns a human-oriented display hint of the form "node.attr".
// It is used in error messages; it is not the resolved form.
func (t *Token) String() string {
	return t.hint
}
