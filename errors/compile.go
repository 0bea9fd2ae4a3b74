package errors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// CompileError represents a parse or compile error with rich context.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.Category())
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      e.Code.Category() + " error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// CompileErrors holds multiple compile errors.
type CompileErrors struct {
	Errors []*CompileError
}

// Add adds a compile error to the collection.
func (e *CompileErrors) Add(err *CompileError) {
	e.Errors = append(e.Errors, err)
}

// Count returns the number of errors.
func (e *CompileErrors) Count() int {
	return len(e.Errors)
}

// HasErrors returns true if there are any errors.
func (e *CompileErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns the errors as a single error, or nil if empty. Several
// errors are combined into a *multierror.Error.
func (e *CompileErrors) ToError() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	result := &multierror.Error{ErrorFormat: listFormat}
	for _, err := range e.Errors {
		result = multierror.Append(result, err)
	}
	return result
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}

// FriendlyErrorMessage renders err for a human reader. Combined errors are
// numbered; errors without rich formatting fall back to Error().
func FriendlyErrorMessage(err error, useColor bool) string {
	formatter := NewFormatter(useColor)
	var merr *multierror.Error
	if As(err, &merr) {
		var formatted []*FormattedError
		for _, e := range merr.Errors {
			if fe, ok := e.(FormattableError); ok {
				formatted = append(formatted, fe.ToFormatted())
			} else {
				formatted = append(formatted, &FormattedError{Message: e.Error()})
			}
		}
		return formatter.FormatMultiple(formatted)
	}
	var fe FormattableError
	if As(err, &fe) {
		return formatter.Format(fe.ToFormatted())
	}
	return err.Error()
}
