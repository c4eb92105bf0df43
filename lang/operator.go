package lang

import (
	"math"

	"github.com/ardnew/onels/lang/syntax"
	"github.com/ardnew/onels/lang/value"
)

// operator applies the operator carried by n. Both operands are evaluated
// against the current value. && and || short-circuit and yield one of their
// operands, not a boolean.
func (e *evaluator) operator(n *syntax.MethodCall, cur value.Value, sc scope) (value.Value, error) {
	left, err := e.target(n.Object, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	switch n.Op {
	case syntax.OpNot:
		return value.Bool(!value.Truthy(left)), nil
	case syntax.OpNeg:
		return value.Number(-value.ToNumber(left)), nil
	case syntax.OpAnd:
		if !value.Truthy(left) {
			return left, nil
		}
	case syntax.OpOr:
		if value.Truthy(left) {
			return left, nil
		}
	}

	if len(n.Args) == 0 {
		return value.Undefined, nil
	}

	right, err := e.eval(n.Args[0], cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	if n.Op.Logical() {
		return right, nil
	}

	return binary(n.Op, left, right), nil
}

// binary applies an arithmetic, relational or equality operator.
func binary(op syntax.Operator, a, b value.Value) value.Value {
	num := func(f func(x, y float64) float64) value.Value {
		return value.Number(f(value.ToNumber(a), value.ToNumber(b)))
	}

	switch op {
	case syntax.OpAdd:
		return value.Add(a, b)
	case syntax.OpSub:
		return num(func(x, y float64) float64 { return x - y })
	case syntax.OpMul:
		return num(func(x, y float64) float64 { return x * y })
	case syntax.OpDiv:
		return num(func(x, y float64) float64 { return x / y })
	case syntax.OpMod:
		return num(math.Mod)
	case syntax.OpGt:
		return value.Bool(value.Less(b, a))
	case syntax.OpLt:
		return value.Bool(value.Less(a, b))
	case syntax.OpGe:
		return value.Bool(value.LessEqual(b, a))
	case syntax.OpLe:
		return value.Bool(value.LessEqual(a, b))
	case syntax.OpEq:
		return value.Bool(value.LooseEqual(a, b))
	case syntax.OpStrictEq:
		return value.Bool(value.StrictEqual(a, b))
	case syntax.OpNe:
		return value.Bool(!value.LooseEqual(a, b))
	case syntax.OpStrictNe:
		return value.Bool(!value.StrictEqual(a, b))
	case syntax.OpNone, syntax.OpAnd, syntax.OpOr, syntax.OpNot, syntax.OpNeg:
		return value.Undefined
	default:
		return value.Undefined
	}
}
