// Package construct implements the construct tree that stack definitions
// are assembled into before synthesis: resource nodes, their input values,
// and the deferred tokens that stand in for attributes which only become
// known once the provisioning engine has run.
package construct

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Value is a single input value in the construct tree. It is a closed set
// of implementations: Literal, *Token, Foreign, Interp, Concat, List and
// *Object. Anything else cannot appear in a tree, which lets the resolver
// and the emitters switch exhaustively over value kinds.
type Value interface {
	value()
}

// Literal is a value known at definition time. The wrapped cty.Value must
// be a string, number, bool or null; using cty here keeps scalar typing
// intact all the way to emission, so a number is never accidentally
// stringified.
type Literal struct {
	Val cty.Value
}

// Str returns a string literal.
func Str(s string) Literal {
	return Literal{Val: cty.StringVal(s)}
}

// Int returns a whole-number literal.
func Int(n int64) Literal {
	return Literal{Val: cty.NumberIntVal(n)}
}

// Float returns a fractional-number literal.
func Float(f float64) Literal {
	return Literal{Val: cty.NumberFloatVal(f)}
}

// Bool returns a boolean literal.
func Bool(b bool) Literal {
	return Literal{Val: cty.BoolVal(b)}
}

// Null returns the null literal.
func Null() Literal {
	return Literal{Val: cty.NullVal(cty.DynamicPseudoType)}
}

// Foreign is an opaque expression in some other system's own template
// syntax, such as a GitHub Actions "${{ ... }}" expression. The resolver
// and the emitters pass Raw through verbatim; it is never evaluated or
// rewritten locally.
type Foreign struct {
	Raw string
}

// Interp is an already-resolved interpolation string in the provisioning
// system's native "${...}" syntax. The resolver produces these when it
// substitutes tokens, but callers may also construct one directly as an
// escape hatch for raw provider expressions.
type Interp struct {
	Src string

	// Segments, when set, records which parts of Src are live "${...}"
	// references and which are verbatim text, so emitters can escape
	// the verbatim parts without touching the references. A flat Src
	// alone cannot tell a user literal containing "${" apart from a
	// substituted reference. An Interp built directly from a raw Src
	// has no segments and is emitted as-is.
	Segments []InterpSegment
}

// InterpSegment is one piece of a resolved interpolation string.
type InterpSegment struct {
	Text string
	// Live marks a "${...}" reference substituted during resolution.
	Live bool
}

// Concat is a composed string kept as an ordered list of parts: literal
// fragments, tokens, foreign expressions, or nested composed strings.
// Parts are never concatenated eagerly, since a token's textual form is
// unknown until resolution.
type Concat []Value

// List is an ordered sequence of values.
type List []Value

// Object is a mapping of string keys to values that remembers insertion
// order. Downstream documents are order-sensitive, so keys are never
// sorted.
type Object struct {
	keys  []string
	elems map[string]Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{elems: make(map[string]Value)}
}

// Set assigns key to v, appending the key if it is new and otherwise
// overwriting in place without disturbing its position. It returns the
// object to allow chained construction.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.elems[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.elems[key] = v
	return o
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value for key, or nil if the key is absent.
func (o *Object) Get(key string) Value {
	return o.elems[key]
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

func (Literal) value() {}
func (*Token) value()  {}
func (Foreign) value() {}
func (Interp) value()  {}
func (Concat) value()  {}
func (List) value()    {}
func (*Object) value() {}

// WalkTokens visits every token reachable from v, depth-first and in
// declared order, calling fn with the dotted attribute path at which the
// token occurs. Walking stops at the first error.
func WalkTokens(path string, v Value, fn func(path string, tok *Token) error) error {
	switch tv := v.(type) {
	case Literal, Foreign, Interp, nil:
		return nil
	case *Token:
		return fn(path, tv)
	case Concat:
		for _, part := range tv {
			if err := WalkTokens(path, part, fn); err != nil {
				return err
			}
		}
		return nil
	case List:
		for i, elem := range tv {
			if err := WalkTokens(fmt.Sprintf("%s[%d]", path, i), elem, fn); err != nil {
				return err
			}
		}
		return nil
	case *Object:
		for _, key := range tv.keys {
			if err := WalkTokens(path+"."+key, tv.elems[key], fn); err != nil {
				return err
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("unhandled value kind %T", v))
	}
}
