package builtin

import (
	"log/slog"

	"github.com/ardnew/onels/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrUnknown    = pkg.NewError("unknown builtin")
	ErrUser       = pkg.NewError("user error")
	ErrRangeLimit = pkg.NewError("range too long")
)

// UserError is raised by the error builtin. Apart from it, a builtin only
// fails on its own when range would exceed its length limit.
type UserError struct {
	Message string
}

// Error implements the error interface.
func (e *UserError) Error() string { return e.Message }

// Unwrap lets errors.Is match [ErrUser].
func (e *UserError) Unwrap() error { return ErrUser }

// LogValue implements slog.LogValuer.
func (e *UserError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUser.Error()),
		slog.String("message", e.Message),
	)
}
