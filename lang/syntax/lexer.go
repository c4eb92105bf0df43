package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Lexer converts an expression into a sequence of tokens.
type Lexer struct {
	input   string
	start   int // start of the current token
	current int // next byte to read
	width   int // width of the last rune read
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of input, terminated by a [TokenEOF].
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)

	var toks []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// Next returns the next token. After the end of input it keeps returning
// [TokenEOF].
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()

	l.start = l.current

	ch := l.next()

	switch {
	case ch == eof:
		return l.emit(TokenEOF), nil
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case isDigit(ch):
		return l.scanNumber(), nil
	case isIdentStart(ch):
		return l.scanIdent(), nil
	}

	switch ch {
	case '.':
		if l.accept('.') {
			return l.emit(TokenDotDot), nil
		}

		return l.emit(TokenDot), nil
	case '?':
		if l.accept('?') {
			return l.emit(TokenCoalesce), nil
		}

		// "?.5" is a question mark followed by a number, as in JavaScript.
		if l.peek() == '.' && !isDigit(l.peekAt(1)) {
			l.next()

			return l.emit(TokenOptional), nil
		}

		return l.emit(TokenQuestion), nil
	case '[':
		return l.emit(TokenBracketOpen), nil
	case ']':
		return l.emit(TokenBracketClose), nil
	case '(':
		return l.emit(TokenParenOpen), nil
	case ')':
		return l.emit(TokenParenClose), nil
	case '{':
		return l.emit(TokenBraceOpen), nil
	case '}':
		return l.emit(TokenBraceClose), nil
	case ',':
		return l.emit(TokenComma), nil
	case ':':
		return l.emit(TokenColon), nil
	case '+', '-', '*', '/', '%':
		return l.emit(TokenOperator), nil
	case '<', '>':
		l.accept('=')

		return l.emit(TokenOperator), nil
	case '=':
		if l.accept('>') {
			return l.emit(TokenArrow), nil
		}

		if l.accept('=') {
			l.accept('=')

			return l.emit(TokenOperator), nil
		}
	case '!':
		if l.accept('=') {
			l.accept('=')
		}

		return l.emit(TokenOperator), nil
	case '&':
		if l.accept('&') {
			return l.emit(TokenOperator), nil
		}
	case '|':
		if l.accept('|') {
			return l.emit(TokenOperator), nil
		}
	}

	return Token{}, &LexError{Char: ch, Pos: l.start, Msg: "unexpected character"}
}

func (l *Lexer) emit(kind TokenKind) Token {
	return Token{Kind: kind, Lexeme: l.input[l.start:l.current], Pos: l.start}
}

func (l *Lexer) next() rune {
	if l.current >= len(l.input) {
		l.width = 0

		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w

	return r
}

func (l *Lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes past the current position without
// consuming anything.
func (l *Lexer) peekAt(n int) rune {
	pos := l.current

	for {
		if pos >= len(l.input) {
			return eof
		}

		r, w := utf8.DecodeRuneInString(l.input[pos:])
		if n == 0 {
			return r
		}

		pos += w
		n--
	}
}

func (l *Lexer) accept(r rune) bool {
	if l.peek() == r {
		l.next()

		return true
	}

	return false
}

func (l *Lexer) skipSpace() {
	for unicode.IsSpace(l.peek()) {
		l.next()
	}
}

func (l *Lexer) scanIdent() Token {
	for isIdentPart(l.peek()) {
		l.next()
	}

	return l.emit(TokenIdent)
}

func (l *Lexer) scanNumber() Token {
	digits := func() {
		for isDigit(l.peek()) {
			l.next()
		}
	}

	digits()

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.next()
		digits()
	}

	if p := l.peek(); p == 'e' || p == 'E' {
		sign := l.peekAt(1)
		if isDigit(sign) || ((sign == '+' || sign == '-') && isDigit(l.peekAt(2))) {
			l.next()

			if sign == '+' || sign == '-' {
				l.next()
			}

			digits()
		}
	}

	return l.emit(TokenNumber)
}

// scanString reads a quoted literal. The opening quote has been consumed.
func (l *Lexer) scanString(quote rune) (Token, error) {
	var sb strings.Builder

	for {
		ch := l.next()

		switch ch {
		case eof:
			return Token{}, &LexError{
				Char: quote, Pos: l.start, Msg: "unterminated string",
			}
		case quote:
			return Token{Kind: TokenString, Lexeme: sb.String(), Pos: l.start}, nil
		case '\\':
			if err := l.scanEscape(&sb, quote); err != nil {
				return Token{}, err
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *Lexer) scanEscape(sb *strings.Builder, quote rune) error {
	ch := l.next()

	switch ch {
	case eof:
		return &LexError{Char: quote, Pos: l.start, Msg: "unterminated string"}
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case 'x':
		return l.scanHex(sb, 2)
	case 'u':
		if l.accept('{') {
			start := l.current
			for l.peek() != '}' && l.peek() != eof {
				l.next()
			}

			code, err := strconv.ParseUint(l.input[start:l.current], 16, 32)
			if err != nil || !l.accept('}') {
				return &LexError{Char: 'u', Pos: start, Msg: "invalid unicode escape"}
			}

			sb.WriteRune(rune(code))

			return nil
		}

		return l.scanHex(sb, 4)
	default:
		// Unknown escapes stand for the character itself.
		sb.WriteRune(ch)
	}

	return nil
}

func (l *Lexer) scanHex(sb *strings.Builder, n int) error {
	start := l.current

	for range n {
		if !isHex(l.peek()) {
			return &LexError{Char: l.peek(), Pos: l.current, Msg: "invalid hex escape"}
		}

		l.next()
	}

	code, _ := strconv.ParseUint(l.input[start:l.current], 16, 32)
	sb.WriteRune(rune(code))

	return nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s is a valid bare identifier.
func IsIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentPart(r) {
			return false
		}
	}

	return s != ""
}
