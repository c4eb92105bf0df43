package syntax

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

// TokenKind identifies the lexical class of a [Token].
type TokenKind uint8

const (
	TokenEOF TokenKind = iota // end of input

	// Literals and names
	TokenIdent  // identifier
	TokenNumber // number
	TokenString // string

	// Path punctuation
	TokenDot      // '.'
	TokenDotDot   // '..'
	TokenOptional // '?.'
	TokenQuestion // '?'
	TokenCoalesce // '??'

	// Grouping
	TokenBracketOpen  // '['
	TokenBracketClose // ']'
	TokenParenOpen    // '('
	TokenParenClose   // ')'
	TokenBraceOpen    // '{'
	TokenBraceClose   // '}'

	// Separators
	TokenComma // ','
	TokenColon // ':'
	TokenArrow // '=>'

	// Operators (+ - * / % > < >= <= == === != !== && || !); the lexeme
	// carries the symbol
	TokenOperator // operator
)

// Token is a single lexical unit. For string literals Lexeme holds the
// unescaped content; for every other kind it is the source text.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    int // byte offset in the expression
}

// String describes the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenString:
		return "string " + quote(t.Lexeme)
	case TokenIdent, TokenNumber, TokenOperator:
		return t.Kind.String() + " '" + t.Lexeme + "'"
	case TokenDot, TokenDotDot, TokenOptional, TokenQuestion, TokenCoalesce,
		TokenBracketOpen, TokenBracketClose, TokenParenOpen, TokenParenClose,
		TokenBraceOpen, TokenBraceClose, TokenComma, TokenColon, TokenArrow:
		return t.Kind.String()
	default:
		return t.Lexeme
	}
}

// Is reports whether t is an operator token with the given symbol.
func (t Token) Is(symbol string) bool {
	return t.Kind == TokenOperator && t.Lexeme == symbol
}
