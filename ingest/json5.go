package ingest

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/pkg"
)

// ErrJSON5 is returned for malformed JSON5 input.
var ErrJSON5 = pkg.NewError("invalid JSON5")

// decodeJSON5 accepts comments, trailing commas, unquoted keys, single
// quoted strings, hex numbers and the Infinity/NaN literals. Object members
// keep document order; a repeated key keeps its first position and its last
// value.
func decodeJSON5(data []byte) (value.Value, error) {
	p := json5Parser{src: string(data)}

	v, err := p.value(0)
	if err != nil {
		return value.Undefined, err
	}

	if err := p.space(); err != nil {
		return value.Undefined, err
	}

	if p.pos < len(p.src) {
		return value.Undefined, p.fail("unexpected trailing input")
	}

	return v, nil
}

const json5MaxDepth = 10000

type json5Parser struct {
	src string
	pos int
}

func (p *json5Parser) fail(reason string) error {
	return ErrJSON5.With(slog.String("reason", reason), slog.Int("offset", p.pos))
}

func (p *json5Parser) peek() (rune, int) {
	if p.pos >= len(p.src) {
		return utf8.RuneError, 0
	}

	return utf8.DecodeRuneInString(p.src[p.pos:])
}

func json5Space(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u2028', '\u2029', '\ufeff':
		return true
	}

	return unicode.Is(unicode.Zs, r)
}

// space skips whitespace and comments.
func (p *json5Parser) space() error {
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]

		switch {
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexAny(rest, "\n\r\u2028\u2029")
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end
			}
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return p.fail("unterminated comment")
			}

			p.pos += end + 4
		default:
			r, n := p.peek()
			if !json5Space(r) {
				return nil
			}

			p.pos += n
		}
	}

	return nil
}

func (p *json5Parser) value(depth int) (value.Value, error) {
	if depth > json5MaxDepth {
		return value.Undefined, p.fail("nesting too deep")
	}

	if err := p.space(); err != nil {
		return value.Undefined, err
	}

	if p.pos >= len(p.src) {
		return value.Undefined, p.fail("unexpected end of input")
	}

	switch c := p.src[p.pos]; c {
	case '{':
		return p.object(depth)
	case '[':
		return p.list(depth)
	case '"', '\'':
		s, err := p.str()
		if err != nil {
			return value.Undefined, err
		}

		return value.String(s), nil
	}

	for _, lit := range []struct {
		word string
		val  value.Value
	}{
		{"null", value.Null},
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
	} {
		if p.word(lit.word) {
			return lit.val, nil
		}
	}

	return p.number()
}

// word consumes w when it is not followed by more identifier characters.
func (p *json5Parser) word(w string) bool {
	if !strings.HasPrefix(p.src[p.pos:], w) {
		return false
	}

	if r, _ := utf8.DecodeRuneInString(p.src[p.pos+len(w):]); identPart(r) {
		return false
	}

	p.pos += len(w)

	return true
}

func (p *json5Parser) object(depth int) (value.Value, error) {
	p.pos++ // {

	obj := value.NewObject()

	for {
		if err := p.space(); err != nil {
			return value.Undefined, err
		}

		if p.pos < len(p.src) && p.src[p.pos] == '}' {
			p.pos++

			return value.FromObject(obj), nil
		}

		key, err := p.key()
		if err != nil {
			return value.Undefined, err
		}

		if err := p.space(); err != nil {
			return value.Undefined, err
		}

		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return value.Undefined, p.fail("expected ':' after object key")
		}

		p.pos++

		v, err := p.value(depth + 1)
		if err != nil {
			return value.Undefined, err
		}

		obj.Set(key, v)

		if done, err := p.separator('}'); err != nil || done {
			return value.FromObject(obj), err
		}
	}
}

func (p *json5Parser) list(depth int) (value.Value, error) {
	p.pos++ // [

	elems := []value.Value{}

	for {
		if err := p.space(); err != nil {
			return value.Undefined, err
		}

		if p.pos < len(p.src) && p.src[p.pos] == ']' {
			p.pos++

			return value.List(elems...), nil
		}

		v, err := p.value(depth + 1)
		if err != nil {
			return value.Undefined, err
		}

		elems = append(elems, v)

		if done, err := p.separator(']'); err != nil || done {
			return value.List(elems...), err
		}
	}
}

// separator consumes a ',' (reporting false so the caller reads another
// member or the closing delimiter) or the closing delimiter itself.
func (p *json5Parser) separator(closing byte) (bool, error) {
	if err := p.space(); err != nil {
		return false, err
	}

	if p.pos >= len(p.src) {
		return false, p.fail("unexpected end of input")
	}

	switch p.src[p.pos] {
	case ',':
		p.pos++

		return false, nil
	case closing:
		p.pos++

		return true, nil
	}

	return false, p.fail("expected ',' or '" + string(closing) + "'")
}

func identStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func identPart(r rune) bool {
	return identStart(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

func (p *json5Parser) key() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.fail("unexpected end of input")
	}

	if c := p.src[p.pos]; c == '"' || c == '\'' {
		return p.str()
	}

	var sb strings.Builder

	for p.pos < len(p.src) {
		r, n := p.peek()

		if r == '\\' {
			if !strings.HasPrefix(p.src[p.pos:], `\u`) {
				return "", p.fail("invalid escape in identifier")
			}

			p.pos += 2

			u, err := p.hex(4)
			if err != nil {
				return "", err
			}

			r, n = rune(u), 0
		}

		ok := identPart(r)
		if sb.Len() == 0 {
			ok = identStart(r)
		}

		if !ok {
			if n == 0 {
				return "", p.fail("invalid identifier escape")
			}

			break
		}

		sb.WriteRune(r)
		p.pos += n
	}

	if sb.Len() == 0 {
		return "", p.fail("expected object key")
	}

	return sb.String(), nil
}

func (p *json5Parser) hex(digits int) (uint64, error) {
	if p.pos+digits > len(p.src) {
		return 0, p.fail("truncated hex escape")
	}

	u, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.fail("invalid hex escape")
	}

	p.pos += digits

	return u, nil
}

func (p *json5Parser) str() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder

	for {
		if p.pos >= len(p.src) {
			return "", p.fail("unterminated string")
		}

		r, n := p.peek()
		p.pos += n

		switch r {
		case rune(quote):
			return sb.String(), nil
		case '\n', '\r':
			return "", p.fail("newline in string")
		case '\\':
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteRune(r)
		}
	}
}

var json5Escapes = map[rune]rune{
	'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

func (p *json5Parser) escape(sb *strings.Builder) error {
	if p.pos >= len(p.src) {
		return p.fail("unterminated string")
	}

	r, n := p.peek()
	p.pos += n

	if c, ok := json5Escapes[r]; ok {
		sb.WriteRune(c)

		return nil
	}

	switch r {
	case '\r':
		// Line continuation; \r\n counts as one terminator.
		if p.pos < len(p.src) && p.src[p.pos] == '\n' {
			p.pos++
		}
	case '\n', '\u2028', '\u2029':
	case '0':
		if p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			return p.fail("octal escape")
		}

		sb.WriteByte(0)
	case 'x':
		u, err := p.hex(2)
		if err != nil {
			return err
		}

		sb.WriteRune(rune(u))
	case 'u':
		u, err := p.hex(4)
		if err != nil {
			return err
		}

		c := rune(u)
		if utf16.IsSurrogate(c) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			save := p.pos
			p.pos += 2

			lo, err := p.hex(4)
			if d := utf16.DecodeRune(c, rune(lo)); err == nil && d != unicode.ReplacementChar {
				c = d
			} else {
				p.pos = save
			}
		}

		sb.WriteRune(c)
	default:
		if r >= '1' && r <= '9' {
			return p.fail("octal escape")
		}

		sb.WriteRune(r)
	}

	return nil
}

func (p *json5Parser) number() (value.Value, error) {
	sign := 1.0

	switch p.src[p.pos] {
	case '-':
		sign = -1
		p.pos++
	case '+':
		p.pos++
	}

	switch {
	case p.word("Infinity"):
		return value.Number(sign * math.Inf(1)), nil
	case p.word("NaN"):
		return value.Number(math.NaN()), nil
	}

	rest := p.src[p.pos:]

	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		end := 2
		for end < len(rest) && isHexDigit(rest[end]) {
			end++
		}

		u, err := strconv.ParseUint(rest[2:end], 16, 64)
		if err != nil {
			return value.Undefined, p.fail("invalid hex number")
		}

		p.pos += end

		return value.Number(sign * float64(u)), nil
	}

	end, digits := 0, 0

	for end < len(rest) && isDigit(rest[end]) {
		end++
		digits++
	}

	if digits > 1 && rest[0] == '0' {
		return value.Undefined, p.fail("leading zero in number")
	}

	if end < len(rest) && rest[end] == '.' {
		end++

		for end < len(rest) && isDigit(rest[end]) {
			end++
			digits++
		}
	}

	if digits == 0 {
		return value.Undefined, p.fail("unexpected character")
	}

	if end < len(rest) && (rest[end] == 'e' || rest[end] == 'E') {
		exp := end + 1
		if exp < len(rest) && (rest[exp] == '+' || rest[exp] == '-') {
			exp++
		}

		start := exp
		for exp < len(rest) && isDigit(rest[exp]) {
			exp++
		}

		if exp == start {
			return value.Undefined, p.fail("missing exponent digits")
		}

		end = exp
	}

	f, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil {
		return value.Undefined, p.fail("invalid number")
	}

	p.pos += end

	return value.Number(sign * f), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
