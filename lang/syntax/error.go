package syntax

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/onels/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrLex   = pkg.NewError("lex error")
	ErrParse = pkg.NewError("parse error")
)

// LexError reports an unrecognized character or an unterminated string
// literal.
type LexError struct {
	Char rune // offending character, or the opening quote of a string
	Pos  int  // byte offset of Char
	Msg  string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s at position %d: %s %q", ErrLex, e.Pos, e.Msg, e.Char)
}

// Unwrap lets errors.Is match [ErrLex].
func (e *LexError) Unwrap() error { return ErrLex }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.Error()),
		slog.String("reason", e.Msg),
		slog.String("char", string(e.Char)),
		slog.Int("pos", e.Pos),
	)
}

// ParseError reports a grammar violation.
type ParseError struct {
	Expected string // what the parser was looking for
	Found    string // description of the token it saw instead
	Pos      int    // byte offset of the offending token
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d: expected %s, found %s",
		ErrParse, e.Pos, e.Expected, e.Found)
}

// Unwrap lets errors.Is match [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.Error()),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
		slog.Int("pos", e.Pos),
	)
}

func quote(s string) string { return strconv.Quote(s) }
