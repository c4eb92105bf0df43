package syntax

// Operator identifies an operator carried by a [MethodCall].
type Operator uint8

const (
	OpNone Operator = iota

	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpMod // %

	OpGt // >
	OpLt // <
	OpGe // >=
	OpLe // <=

	OpEq       // ==
	OpStrictEq // ===
	OpNe       // !=
	OpStrictNe // !==

	OpAnd // &&
	OpOr  // ||

	OpNot // unary !
	OpNeg // unary -
)

var opSymbols = [...]string{
	OpNone:     "",
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpMod:      "%",
	OpGt:       ">",
	OpLt:       "<",
	OpGe:       ">=",
	OpLe:       "<=",
	OpEq:       "==",
	OpStrictEq: "===",
	OpNe:       "!=",
	OpStrictNe: "!==",
	OpAnd:      "&&",
	OpOr:       "||",
	OpNot:      "!",
	OpNeg:      "-",
}

// Symbol returns the source spelling of the operator.
func (op Operator) Symbol() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}

	return ""
}

// String returns the source spelling of the operator.
func (op Operator) String() string { return op.Symbol() }

// Unary reports whether the operator takes a single operand.
func (op Operator) Unary() bool { return op == OpNot || op == OpNeg }

// Logical reports whether the operator short-circuits.
func (op Operator) Logical() bool { return op == OpAnd || op == OpOr }

// binaryOperator returns the binary operator spelled symbol.
func binaryOperator(symbol string) (Operator, bool) {
	for op := OpAdd; op <= OpOr; op++ {
		if opSymbols[op] == symbol {
			return op, true
		}
	}

	return OpNone, false
}
