package shortcut

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type pieceKind uint8

const (
	pieceSpace pieceKind = iota
	pieceIdent
	pieceNumber
	pieceString
	pieceOperator // run of = ! < > & |
	piecePunct    // any other single character
)

// piece is a span of expression text. Concatenating the pieces of a scan
// reproduces the input exactly.
type piece struct {
	kind pieceKind
	text string
}

func (p piece) is(s string) bool {
	return (p.kind == piecePunct || p.kind == pieceOperator) && p.text == s
}

// arrow reports whether p is the arrow marker.
func (p piece) arrow() bool { return p.kind == pieceOperator && p.text == "=>" }

// comparison reports whether p is a logical or comparison operator.
func (p piece) comparison() bool { return p.kind == pieceOperator && p.text != "=>" }

// scan splits s into pieces. It never fails: an unterminated string
// extends to the end of the input and unknown characters become
// single-character punctuation.
func scan(s string) []piece {
	var out []piece

	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		start := i

		var kind pieceKind

		switch {
		case unicode.IsSpace(r):
			kind = pieceSpace
			i = skip(s, i, unicode.IsSpace)

		case r == '"' || r == '\'':
			kind = pieceString
			i = skipString(s, i+w, r)

		case r >= '0' && r <= '9':
			kind = pieceNumber
			i = skipNumber(s, i)

		case isIdentStart(r):
			kind = pieceIdent
			i = skip(s, i, isIdentPart)

		case strings.ContainsRune("=!<>&|", r):
			kind = pieceOperator
			i = skipOperator(s, i)

		default:
			kind = piecePunct
			i += w
		}

		out = append(out, piece{kind: kind, text: s[start:i]})
	}

	return out
}

func skip(s string, i int, keep func(rune) bool) int {
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !keep(r) {
			break
		}

		i += w
	}

	return i
}

func skipString(s string, i int, quote rune) int {
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		i += w

		switch r {
		case '\\':
			if i < len(s) {
				_, w = utf8.DecodeRuneInString(s[i:])
				i += w
			}
		case quote:
			return i
		}
	}

	return i
}

// skipOperator consumes an operator run. The arrow is always a piece of its
// own so that "x=>!x" still reads as an arrow.
func skipOperator(s string, i int) int {
	if strings.HasPrefix(s[i:], "=>") {
		return i + 2
	}

	for i < len(s) && strings.IndexByte("=!<>&|", s[i]) >= 0 &&
		!strings.HasPrefix(s[i:], "=>") {
		i++
	}

	return i
}

func skipNumber(s string, i int) int {
	digit := func(r rune) bool { return r >= '0' && r <= '9' }

	i = skip(s, i, digit)

	if i+1 < len(s) && s[i] == '.' && digit(rune(s[i+1])) {
		i = skip(s, i+1, digit)
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		if j < len(s) && digit(rune(s[j])) {
			i = skip(s, j, digit)
		}
	}

	return i
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func join(ps []piece) string {
	var sb strings.Builder

	for _, p := range ps {
		sb.WriteString(p.text)
	}

	return sb.String()
}

// prevSignificant returns the index of the last non-space piece before i,
// or -1.
func prevSignificant(ps []piece, i int) int {
	for i--; i >= 0; i-- {
		if ps[i].kind != pieceSpace {
			return i
		}
	}

	return -1
}

// nextSignificant returns the index of the first non-space piece after i,
// or len(ps).
func nextSignificant(ps []piece, i int) int {
	for i++; i < len(ps); i++ {
		if ps[i].kind != pieceSpace {
			return i
		}
	}

	return len(ps)
}

func opens(p piece) bool  { return p.is("(") || p.is("[") || p.is("{") }
func closes(p piece) bool { return p.is(")") || p.is("]") || p.is("}") }

// groups returns, for each opening bracket, the index of the piece closing
// it, or len(ps) when the group is unclosed. Any closing bracket ends the
// innermost open group; a closing bracket with no open group is ignored.
// Entries for other pieces are -1.
func groups(ps []piece) []int {
	match := make([]int, len(ps))

	var stack []int

	for i, p := range ps {
		match[i] = -1

		switch {
		case opens(p):
			stack = append(stack, i)
		case closes(p):
			if n := len(stack); n > 0 {
				match[stack[n-1]] = i
				stack = stack[:n-1]
			}
		}
	}

	for _, i := range stack {
		match[i] = len(ps)
	}

	return match
}

// splitArgs splits an argument list at commas outside nested groups. The
// separating commas are kept as single-piece slices between arguments.
func splitArgs(ps []piece) [][]piece {
	var (
		out   [][]piece
		depth int
		start int
	)

	for i, p := range ps {
		switch {
		case opens(p):
			depth++
		case closes(p):
			depth--
		case p.is(",") && depth == 0:
			out = append(out, ps[start:i], ps[i:i+1])
			start = i + 1
		}
	}

	return append(out, ps[start:])
}

// arrowAtTop reports whether ps holds an arrow outside nested groups.
func arrowAtTop(ps []piece) bool {
	depth := 0

	for _, p := range ps {
		switch {
		case opens(p):
			depth++
		case closes(p):
			depth--
		case p.arrow() && depth == 0:
			return true
		}
	}

	return false
}
