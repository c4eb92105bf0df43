package syntax

//go:generate go tool stringer --linecomment --type ObjectOp --output objectop_string.go

import (
	"strings"

	"github.com/ardnew/onels/lang/value"
)

// Node is an element of the abstract syntax tree.
//
// The set of node types is closed; the evaluator switches over exactly the
// types declared in this file. Nodes are immutable after parsing, so a tree
// may be evaluated concurrently.
//
// Nodes with an Object field apply their operation to the evaluated Object,
// or to the current value when Object is nil.
type Node interface {
	String() string
	node()
}

// Root is the top of every parsed expression. A nil Expr is the identity.
type Root struct {
	Expr Node
}

// PropertyAccess reads a member of an object.
type PropertyAccess struct {
	Object   Node
	Property string
	Pos      int
}

// IndexAccess reads one element of a list.
type IndexAccess struct {
	Object Node
	Index  Node
}

// SliceAccess reads a half-open range of a list. Start and End are
// optional.
type SliceAccess struct {
	Object     Node
	Start, End Node
}

// ArraySpread yields the elements of a list (or values of an object) as a
// list: `.[]`.
type ArraySpread struct {
	Object Node
}

// MethodCall invokes a named method, or applies an operator when Op is not
// [OpNone]. Binary operators carry their right operand as the only argument;
// unary operators have no arguments.
type MethodCall struct {
	Object Node
	Method string
	Op     Operator
	Args   []Node
	Pos    int
}

// ObjectOp names an object operation: `.{keys}`.
type ObjectOp uint8

const (
	ObjectKeys    ObjectOp = iota // keys
	ObjectValues                  // values
	ObjectEntries                 // entries
	ObjectLength                  // length
)

// objectOps maps operation names to their ObjectOp.
var objectOps = map[string]ObjectOp{
	"keys":    ObjectKeys,
	"values":  ObjectValues,
	"entries": ObjectEntries,
	"length":  ObjectLength,
}

// ObjectOperation applies an [ObjectOp] to an object.
type ObjectOperation struct {
	Object Node
	Op     ObjectOp
}

// Literal is a constant.
type Literal struct {
	Value value.Value
}

// ArrowFunction is a closure literal: `x => body` or `(a, b) => body`.
type ArrowFunction struct {
	Params []string
	Body   Node
}

// RecursiveDescent flattens a value and all of its descendants, pre-order.
type RecursiveDescent struct {
	Object Node
}

// OptionalAccess evaluates Expr and turns any runtime error into undefined.
type OptionalAccess struct {
	Expr Node
}

// NullCoalescing yields Left unless it is null or undefined, in which case
// Right is evaluated and returned.
type NullCoalescing struct {
	Left, Right Node
}

func (*Root) node()             {}
func (*PropertyAccess) node()   {}
func (*IndexAccess) node()      {}
func (*SliceAccess) node()      {}
func (*ArraySpread) node()      {}
func (*MethodCall) node()       {}
func (*ObjectOperation) node()  {}
func (*Literal) node()          {}
func (*ArrowFunction) node()    {}
func (*RecursiveDescent) node() {}
func (*OptionalAccess) node()   {}
func (*NullCoalescing) node()   {}

// prefix renders the receiver of a postfix operation. Receivers that would
// bind differently when written in front of one are parenthesized.
func prefix(obj Node) string {
	switch n := obj.(type) {
	case nil:
		return ""
	case *MethodCall:
		if n.Op.Unary() {
			return "(" + n.String() + ")"
		}
	case *ArrowFunction:
		return "(" + n.String() + ")"
	case *Literal:
		if f, ok := n.Value.AsNumber(); ok && f < 0 {
			return "(" + n.String() + ")"
		}
	}

	return obj.String()
}

// member renders the receiver of a dot member, dot included. A "?" before
// the dot would read as "?." and a "..." would lose the member dot, so an
// optional receiver is parenthesized and descent is joined directly.
func member(obj Node) string {
	switch obj.(type) {
	case nil:
		return "."
	case *RecursiveDescent:
		return obj.String()
	case *OptionalAccess:
		return "(" + obj.String() + ")."
	}

	return prefix(obj) + "."
}

func (n *Root) String() string {
	if n.Expr == nil {
		return "."
	}

	return n.Expr.String()
}

func (n *PropertyAccess) String() string {
	if IsIdentifier(n.Property) {
		return member(n.Object) + n.Property
	}

	// Only an identifier may follow "..".
	if _, ok := n.Object.(*RecursiveDescent); ok {
		return "(" + n.Object.String() + ")." + quote(n.Property)
	}

	return member(n.Object) + quote(n.Property)
}

func (n *IndexAccess) String() string {
	return prefix(n.Object) + dotless(n.Object) + "[" + n.Index.String() + "]"
}

func (n *SliceAccess) String() string {
	var sb strings.Builder

	sb.WriteString(prefix(n.Object) + dotless(n.Object) + "[")

	if n.Start != nil {
		sb.WriteString(n.Start.String())
	}

	sb.WriteByte(':')

	if n.End != nil {
		sb.WriteString(n.End.String())
	}

	sb.WriteByte(']')

	return sb.String()
}

func (n *ArraySpread) String() string {
	return prefix(n.Object) + dotless(n.Object) + "[]"
}

// dotless returns "." for bracket operations applied to the current value.
func dotless(obj Node) string {
	if obj == nil {
		return "."
	}

	return ""
}

func (n *MethodCall) String() string {
	switch {
	case n.Op.Unary():
		return n.Op.Symbol() + prefix(n.Object)
	case n.Op != OpNone:
		return "(" + prefix(n.Object) + " " + n.Op.Symbol() + " " + n.Args[0].String() + ")"
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	call := n.Method + "(" + strings.Join(args, ", ") + ")"
	if n.Object == nil {
		return call
	}

	return member(n.Object) + call
}

func (n *ObjectOperation) String() string {
	recv := member(n.Object)
	if _, ok := n.Object.(*RecursiveDescent); ok {
		recv = "(" + n.Object.String() + ")."
	}

	return recv + "{" + n.Op.String() + "}"
}

func (n *Literal) String() string {
	switch n.Value.Kind() {
	case value.KindUndefined, value.KindOmit:
		return "undefined"
	case value.KindNull, value.KindBool, value.KindNumber, value.KindString,
		value.KindList, value.KindObject, value.KindFunc:
		return string(value.JSON(n.Value, ""))
	default:
		return "undefined"
	}
}

func (n *ArrowFunction) String() string {
	if len(n.Params) == 1 {
		return n.Params[0] + " => " + n.Body.String()
	}

	return "(" + strings.Join(n.Params, ", ") + ") => " + n.Body.String()
}

func (n *RecursiveDescent) String() string {
	if _, ok := n.Object.(*OptionalAccess); ok {
		return "(" + n.Object.String() + ").."
	}

	return prefix(n.Object) + ".."
}

// String marks the whole chain optional with a trailing "?". A "?." inside
// the chain parses to the same tree, so ".a?.b" prints as ".a.b?".
func (n *OptionalAccess) String() string {
	return prefix(n.Expr) + "?"
}

func (n *NullCoalescing) String() string {
	return "(" + n.Left.String() + " ?? " + n.Right.String() + ")"
}
