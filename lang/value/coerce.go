package value

import (
	"math"
	"strconv"
	"strings"
)

// TypeName returns the type name reported by the type builtin. It follows
// JavaScript typeof, except that null and arrays get their own names.
func TypeName(v Value) string {
	if v.kind == KindOmit {
		return KindUndefined.String()
	}

	return v.kind.String()
}

// Truthy reports whether v is truthy under JavaScript rules.
func Truthy(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull, KindOmit:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	case KindList, KindObject, KindFunc:
		return true
	default:
		return false
	}
}

// ToNumber converts v to a number under JavaScript rules.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		if v.b {
			return 1
		}

		return 0
	case KindNumber:
		return v.n
	case KindString:
		return parseNumber(v.s)
	case KindList:
		return parseNumber(ToString(v))
	case KindUndefined, KindObject, KindFunc, KindOmit:
		return math.NaN()
	default:
		return math.NaN()
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0

		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}

		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}

			return float64(n)
		}
	}

	// strconv accepts spellings JavaScript rejects ("inf", "nan", "1_0").
	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return math.NaN()
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return n
}

// ToString converts v to a string under JavaScript String() rules.
func ToString(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.n)
	case KindString:
		return v.s
	case KindList:
		var sb strings.Builder

		for i, e := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}

			if !e.IsNullish() {
				sb.WriteString(ToString(e))
			}
		}

		return sb.String()
	case KindObject:
		return "[object Object]"
	case KindFunc:
		return v.fn.String()
	case KindOmit:
		return ""
	default:
		return ""
	}
}

// FormatNumber formats n the way JavaScript Number.prototype.toString does.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")

		return mant + "e" + sign + exp
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

// toPrimitive reduces composite values to strings, the way JavaScript's
// default ToPrimitive hint does for arrays and plain objects.
func toPrimitive(v Value) Value {
	switch v.kind {
	case KindList, KindObject, KindFunc:
		return String(ToString(v))
	case KindUndefined, KindNull, KindBool, KindNumber, KindString, KindOmit:
		return v
	default:
		return v
	}
}

// StrictEqual reports whether a === b. Lists and objects compare
// structurally; object member order is not significant.
func StrictEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindUndefined, KindNull, KindOmit:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}

		for i := range a.list {
			if !StrictEqual(a.list[i], b.list[i]) {
				return false
			}
		}

		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}

		for k, av := range a.obj.All() {
			bv, ok := b.obj.Get(k)
			if !ok || !StrictEqual(av, bv) {
				return false
			}
		}

		return true
	case KindFunc:
		return sameFunc(a.fn, b.fn)
	default:
		return false
	}
}

func sameFunc(a, b Callable) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}

// LooseEqual reports whether a == b under JavaScript abstract equality.
func LooseEqual(a, b Value) bool {
	if a.kind == b.kind {
		return StrictEqual(a, b)
	}

	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}

	switch {
	case a.kind == KindBool:
		return LooseEqual(Number(ToNumber(a)), b)
	case b.kind == KindBool:
		return LooseEqual(a, Number(ToNumber(b)))
	case a.kind == KindNumber && b.kind == KindString:
		return a.n == parseNumber(b.s)
	case a.kind == KindString && b.kind == KindNumber:
		return parseNumber(a.s) == b.n
	case a.kind == KindFunc || b.kind == KindFunc:
		return false
	case a.kind == KindList || a.kind == KindObject:
		return LooseEqual(toPrimitive(a), b)
	case b.kind == KindList || b.kind == KindObject:
		return LooseEqual(a, toPrimitive(b))
	default:
		return false
	}
}

// Less reports whether a < b under JavaScript relational comparison.
// Two strings compare lexically; everything else compares numerically, and
// any comparison involving NaN is false.
func Less(a, b Value) bool {
	pa, pb := toPrimitive(a), toPrimitive(b)
	if pa.kind == KindString && pb.kind == KindString {
		return pa.s < pb.s
	}

	na, nb := ToNumber(pa), ToNumber(pb)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false
	}

	return na < nb
}

// LessEqual reports whether a <= b under JavaScript relational comparison.
func LessEqual(a, b Value) bool {
	pa, pb := toPrimitive(a), toPrimitive(b)
	if pa.kind == KindString && pb.kind == KindString {
		return pa.s <= pb.s
	}

	na, nb := ToNumber(pa), ToNumber(pb)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false
	}

	return na <= nb
}

// Add returns a + b under JavaScript rules: string concatenation when
// either primitive operand is a string, numeric addition otherwise.
func Add(a, b Value) Value {
	pa, pb := toPrimitive(a), toPrimitive(b)
	if pa.kind == KindString || pb.kind == KindString {
		return String(ToString(pa) + ToString(pb))
	}

	return Number(ToNumber(pa) + ToNumber(pb))
}
