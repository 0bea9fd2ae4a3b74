// Package errors defines the error types reported while compiling and
// interpreting PINS programs.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is wrapped by errors raised for constructs the code
// generator or interpreter does not handle.
var ErrUnsupported = errors.New("unsupported")

// Is and As forward to the standard library so callers need only one import.
var (
	Is = errors.Is
	As = errors.As
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// StackFrame is one active function call at the time of a runtime error.
type StackFrame struct {
	Function string
	FP       int
	SP       int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("at %s (fp=%d, sp=%d)", f.Function, f.FP, f.SP)
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter.
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// EvalError is used to indicate an unrecoverable error that occurred
// during program evaluation. All EvalErrors are considered fatal errors.
type EvalError struct {
	Code  ErrorCode
	Err   error
	Stack []StackFrame
}

func (r *EvalError) Error() string {
	return r.Err.Error()
}

func (r *EvalError) Unwrap() error {
	return r.Err
}

func (r *EvalError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage renders the error and its call stack.
func (r *EvalError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(r.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (r *EvalError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:    r.Code,
		Kind:    "runtime error",
		Message: r.Err.Error(),
		Stack:   r.Stack,
	}
}

// NewEvalError wraps err as a runtime error with the given code.
func NewEvalError(code ErrorCode, err error) *EvalError {
	return &EvalError{Code: code, Err: err}
}

// EvalErrorf returns a runtime error with a formatted message.
func EvalErrorf(code ErrorCode, format string, args ...any) *EvalError {
	return NewEvalError(code, fmt.Errorf(format, args...))
}

// InternalError reports a broken invariant inside the toolchain itself, such
// as a definition missing from a side table. It always indicates a bug.
type InternalError struct {
	Phase string
	Err   error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (%s): %s", e.Phase, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) IsFatal() bool {
	return true
}

// InternalErrorf returns an InternalError for the named phase.
func InternalErrorf(phase, format string, args ...any) *InternalError {
	return &InternalError{Phase: phase, Err: fmt.Errorf(format, args...)}
}

// Unsupportedf returns an error wrapping ErrUnsupported.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}
