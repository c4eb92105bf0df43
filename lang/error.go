package lang

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/onels/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrUndefinedProperty = pkg.NewError("undefined property")
	ErrMethodExecution   = pkg.NewError("method execution failed")
)

// UndefinedPropertyError reports a property read that found nothing. It is
// only raised in strict mode.
type UndefinedPropertyError struct {
	Property string
	Pos      int
}

// Error implements the error interface.
func (e *UndefinedPropertyError) Error() string {
	return fmt.Sprintf("%s at position %d: %q", ErrUndefinedProperty, e.Pos, e.Property)
}

// Unwrap lets errors.Is match [ErrUndefinedProperty].
func (e *UndefinedPropertyError) Unwrap() error { return ErrUndefinedProperty }

// LogValue implements slog.LogValuer.
func (e *UndefinedPropertyError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUndefinedProperty.Error()),
		slog.String("property", e.Property),
		slog.Int("pos", e.Pos),
	)
}

// MethodExecutionError reports a native method that does not exist for its
// target or that failed while running. Err holds the underlying failure,
// if any, such as an error raised by a callback.
type MethodExecutionError struct {
	Method  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MethodExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMethodExecution, e.Method, e.Message)
}

// Unwrap lets errors.Is match [ErrMethodExecution] and the cause.
func (e *MethodExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMethodExecution}
	}

	return []error{ErrMethodExecution, e.Err}
}

// LogValue implements slog.LogValuer.
func (e *MethodExecutionError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrMethodExecution.Error()),
		slog.String("method", e.Method),
		slog.String("message", e.Message),
	)
}

// methodError wraps err as a failure of method. Errors that already carry
// a method are returned unchanged so nested calls report the innermost one.
func methodError(method string, err error) error {
	var me *MethodExecutionError
	if errors.As(err, &me) {
		return err
	}

	return &MethodExecutionError{Method: method, Message: err.Error(), Err: err}
}
