package shortcut

// Param is the parameter name introduced by implicit-parameter expansion.
// When the argument already uses it as a name, the next free one of "y",
// "z", "x1", "x2", ... is used instead.
const Param = "x"

// callbacks names the calls whose arguments are functions of one element.
// Only their argument lists take part in implicit-parameter rewriting.
var callbacks = map[string]bool{
	"map":       true,
	"filter":    true,
	"find":      true,
	"findIndex": true,
	"some":      true,
	"every":     true,
	"flatMap":   true,
	"uniqBy":    true,
	"groupBy":   true,
	"countBy":   true,
	"sortBy":    true,
	"partition": true,
	"any":       true,
	"all":       true,
	"select":    true,
}

var keywords = map[string]bool{
	"true":      true,
	"false":     true,
	"null":      true,
	"undefined": true,
}

// Expand rewrites expr into canonical form.
//
// Shortcut names are replaced by their full forms: ".mp" becomes ".map" and
// "hd(" becomes "head(". A name is only replaced when it is a whole
// identifier, so "template" never matches "mp". String literals are never
// touched.
//
// Then each argument of a callback call (map, filter, sortBy, ...) that has
// no arrow of its own and begins with a bare property, or has one right
// after a logical or comparison operator, becomes an arrow function of
// [Param]:
//
//	.filter(.age > 30)  =>  .filter(x => x.age > 30)
//
// Expand is idempotent and never fails; unrecognized text passes through.
func Expand(expr string) string {
	return expandImplicit(expandNames(scan(expr)))
}

// Shorten is the inverse of [Expand]. Arrow functions that only read
// members of their parameter, and that [Expand] would recreate, lose the
// parameter; then full names are replaced by their shortcuts.
func Shorten(expr string) string {
	return join(shortenNames(contract(scan(expr))))
}

func expandNames(ps []piece) []piece {
	out := make([]piece, 0, len(ps))

	for i, p := range ps {
		if p.kind != pieceIdent {
			out = append(out, p)

			continue
		}

		if i > 0 && ps[i-1].is(".") {
			if full, ok := methodExpand["."+p.text]; ok {
				out = append(out[:len(out)-1], scan(full)...)

				continue
			}
		}

		if n := nextSignificant(ps, i); n < len(ps) && ps[n].is("(") {
			if full, ok := builtinExpand[p.text]; ok {
				p.text = full
			}
		}

		out = append(out, p)
	}

	return out
}

func shortenNames(ps []piece) []piece {
	out := make([]piece, 0, len(ps))

	for i := 0; i < len(ps); i++ {
		p := ps[i]

		if p.is(".") && i+3 < len(ps) && ps[i+1].is("{") &&
			ps[i+2].kind == pieceIdent && ps[i+3].is("}") {
			if short, ok := methodShorten[".{"+ps[i+2].text+"}"]; ok {
				out = append(out, scan(short)...)
				i += 3

				continue
			}
		}

		if p.kind == pieceIdent {
			if i > 0 && ps[i-1].is(".") {
				if short, ok := methodShorten["."+p.text]; ok {
					out = append(out[:len(out)-1], scan(short)...)

					continue
				}
			}

			if n := nextSignificant(ps, i); n < len(ps) && ps[n].is("(") {
				if short, ok := builtinShorten[p.text]; ok {
					p.text = short
				}
			}
		}

		out = append(out, p)
	}

	return out
}

// contract applies contractArg to the arguments of every callback call,
// innermost calls first.
func contract(ps []piece) []piece {
	return eachCall(ps, 0, len(ps), groups(ps), contractArg)
}

func eachCall(ps []piece, lo, hi int, match []int, rewrite func([]piece) []piece) []piece {
	out := make([]piece, 0, hi-lo)

	for i := lo; i < hi; i++ {
		if !ps[i].is("(") {
			out = append(out, ps[i])

			continue
		}

		end := min(match[i], hi)
		inner := eachCall(ps, i+1, end, match, rewrite)

		if k := prevSignificant(out, len(out)); k >= 0 &&
			out[k].kind == pieceIdent && callbacks[out[k].text] {
			var args []piece

			for _, arg := range splitArgs(inner) {
				if len(arg) == 1 && arg[0].is(",") {
					args = append(args, arg...)
				} else {
					args = append(args, rewrite(arg)...)
				}
			}

			inner = args
		}

		out = append(out, ps[i])
		out = append(out, inner...)

		if end < hi {
			out = append(out, ps[end])
		}

		i = end
	}

	return out
}

// isBare reports whether the dot at i starts a property of the implicit
// value rather than a member of the preceding operand.
func isBare(ps []piece, i int) bool {
	if !ps[i].is(".") || i+1 >= len(ps) {
		return false
	}

	next := ps[i+1]
	if next.kind != pieceIdent && !next.is("{") && !next.is("[") {
		return false
	}

	k := prevSignificant(ps, i)
	if k < 0 {
		return true
	}

	switch prev := ps[k]; prev.kind {
	case pieceIdent, pieceNumber, pieceString:
		return false
	case piecePunct:
		switch prev.text {
		case ")", "]", "}", ".", "?":
			return false
		}
	}

	return true
}

// bareDots marks the bare dots of an argument. Groups holding their own
// arrow function are skipped.
func bareDots(ps []piece) []bool {
	dots := make([]bool, len(ps))
	match := groups(ps)

	for i := 0; i < len(ps); i++ {
		if ps[i].is("(") {
			if end := match[i]; arrowAtTop(ps[i+1 : end]) {
				i = end

				continue
			}
		}

		dots[i] = isBare(ps, i)
	}

	return dots
}

// triggers reports whether an argument is in implicit form: it begins with
// a bare property (after any opening parens or unary operators), or a bare
// property follows a logical or comparison operator.
func triggers(ps []piece, dots []bool) bool {
	first := nextSignificant(ps, -1)
	for first < len(ps) && (ps[first].is("(") || ps[first].is("!") || ps[first].is("-")) {
		first = nextSignificant(ps, first)
	}

	if first < len(ps) && dots[first] {
		return true
	}

	for i, bare := range dots {
		if !bare {
			continue
		}

		if k := prevSignificant(ps, i); k >= 0 && ps[k].comparison() {
			return true
		}
	}

	return false
}

func leadingSpace(ps []piece) int {
	if len(ps) > 0 && ps[0].kind == pieceSpace {
		return 1
	}

	return 0
}

// contractArg turns "p => p.a > 1" back into ".a > 1". The body may only
// use the parameter as the receiver of a member and keywords as free
// identifiers, and must hold no bare property or nested arrow of its own.
func contractArg(arg []piece) []piece {
	lead := leadingSpace(arg)
	if lead >= len(arg) || arg[lead].kind != pieceIdent {
		return arg
	}

	param := arg[lead].text

	arrow := nextSignificant(arg, lead)
	if arrow >= len(arg) || !arg[arrow].arrow() {
		return arg
	}

	start := nextSignificant(arg, arrow)
	body := arg[start:]

	used := false

	for k, p := range body {
		switch {
		case p.arrow():
			return arg
		case p.is(".") && isBare(body, k):
			return arg
		case p.kind == pieceIdent && (k == 0 || !body[k-1].is(".")):
			if p.text == param && k+1 < len(body) && body[k+1].is(".") {
				used = true

				continue
			}

			if !keywords[p.text] {
				return arg
			}
		}
	}

	if !used {
		return arg
	}

	out := make([]piece, 0, len(arg))
	out = append(out, arg[:lead]...)

	for k, p := range body {
		if p.kind == pieceIdent && p.text == param && (k == 0 || !body[k-1].is(".")) {
			continue
		}

		out = append(out, p)
	}

	if !triggers(out, bareDots(out)) {
		return arg
	}

	return out
}
