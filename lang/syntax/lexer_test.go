package syntax

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "property chain",
			input: ".users.name",
			want: []TokenKind{
				TokenDot, TokenIdent, TokenDot, TokenIdent, TokenEOF,
			},
		},
		{
			name:  "optional and coalesce",
			input: ".a?.b ?? 'x'",
			want: []TokenKind{
				TokenDot, TokenIdent, TokenOptional, TokenIdent,
				TokenCoalesce, TokenString, TokenEOF,
			},
		},
		{
			name:  "arrow function",
			input: "x => x >= 2",
			want: []TokenKind{
				TokenIdent, TokenArrow, TokenIdent, TokenOperator, TokenNumber,
				TokenEOF,
			},
		},
		{
			name:  "slice with negative bound",
			input: ".[1:-2]",
			want: []TokenKind{
				TokenDot, TokenBracketOpen, TokenNumber, TokenColon,
				TokenOperator, TokenNumber, TokenBracketClose, TokenEOF,
			},
		},
		{
			name:  "object operation",
			input: ".{keys}",
			want: []TokenKind{
				TokenDot, TokenBraceOpen, TokenIdent, TokenBraceClose, TokenEOF,
			},
		},
		{
			name:  "recursive descent",
			input: "..name",
			want:  []TokenKind{TokenDotDot, TokenIdent, TokenEOF},
		},
		{
			name:  "call arguments",
			input: "(a, b)",
			want: []TokenKind{
				TokenParenOpen, TokenIdent, TokenComma, TokenIdent,
				TokenParenClose, TokenEOF,
			},
		},
		{
			name:  "question before fraction",
			input: "?.5",
			want:  []TokenKind{TokenQuestion, TokenDot, TokenNumber, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Operators(t *testing.T) {
	ops := []string{
		"+", "-", "*", "/", "%", ">", "<", ">=", "<=",
		"==", "===", "!=", "!==", "&&", "||", "!",
	}

	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			toks, err := Tokenize("1 " + op + " 2")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(toks) != 4 {
				t.Fatalf("expected 4 tokens, got %d", len(toks))
			}

			if !toks[1].Is(op) {
				t.Errorf("expected operator %q, got %v", op, toks[1])
			}
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
		want  string
	}{
		{"integer", "42", TokenNumber, "42"},
		{"fraction", "1.5", TokenNumber, "1.5"},
		{"exponent", "1.5e3", TokenNumber, "1.5e3"},
		{"signed exponent", "2E-4", TokenNumber, "2E-4"},
		{"double quoted", `"hello"`, TokenString, "hello"},
		{"single quoted", `'hello'`, TokenString, "hello"},
		{"escaped newline", `"a\nb"`, TokenString, "a\nb"},
		{"escaped quote", `'it\'s'`, TokenString, "it's"},
		{"other quote kind", `"it's"`, TokenString, "it's"},
		{"hex and unicode", `"A\x42\u{1F600}"`, TokenString, "AB\U0001F600"},
		{"unknown escape", `"\q"`, TokenString, "q"},
		{"identifier", "$first_name2", TokenIdent, "$first_name2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if toks[0].Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, toks[0].Kind)
			}

			if toks[0].Lexeme != tt.want {
				t.Errorf("expected lexeme %q, got %q", tt.want, toks[0].Lexeme)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize(`.a  == "b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{0, 1, 4, 7, 10}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%v): expected pos %d, got %d", i, tok, want[i], tok.Pos)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		char  rune
		pos   int
	}{
		{"unknown character", ".a @ 1", '@', 3},
		{"single equals", "a = b", '=', 2},
		{"single ampersand", "a & b", '&', 2},
		{"single pipe", "a | b", '|', 2},
		{"hash", "#", '#', 0},
		{"unterminated double", `.a == "abc`, '"', 6},
		{"unterminated single", `'abc`, '\'', 0},
		{"dangling escape", `"abc\`, '"', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected ErrLex, got %v", err)
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T", err)
			}

			if lexErr.Char != tt.char {
				t.Errorf("expected char %q, got %q", tt.char, lexErr.Char)
			}

			if lexErr.Pos != tt.pos {
				t.Errorf("expected pos %d, got %d", tt.pos, lexErr.Pos)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"name":       true,
		"_private":   true,
		"$ref":       true,
		"a1":         true,
		"1a":         false,
		"":           false,
		"first name": false,
		"a-b":        false,
	}

	for input, want := range tests {
		if got := IsIdentifier(input); got != want {
			t.Errorf("IsIdentifier(%q): expected %v, got %v", input, want, got)
		}
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add(".users[0].name")
	f.Add(".filter(x => x.age > 30)")
	f.Add(`"unterminated`)
	f.Add("a ?? b?.c")
	f.Add("'\\u{1F600}'")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		toks, err := Tokenize(input)
		if err != nil {
			return
		}

		if toks[len(toks)-1].Kind != TokenEOF {
			t.Errorf("token stream for %q does not end with EOF", input)
		}

		for i, tok := range toks {
			if tok.Pos < 0 || tok.Pos > len(input) {
				t.Errorf("token %d has invalid position %d", i, tok.Pos)
			}
		}
	})
}
