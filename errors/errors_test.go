package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation(t *testing.T) {
	require.Equal(t, "a.pins:3:7", SourceLocation{Filename: "a.pins", Line: 3, Column: 7}.String())
	require.Equal(t, "3:7", SourceLocation{Line: 3, Column: 7}.String())
	require.True(t, SourceLocation{}.IsZero())
}

func TestStackTrace(t *testing.T) {
	require.Equal(t, "", FormatStackTrace(nil))
	trace := FormatStackTrace([]StackFrame{{Function: "_main", FP: 1000, SP: 980}})
	require.Equal(t, "Stack trace:\n  at _main (fp=1000, sp=980)\n", trace)
}

func TestEvalError(t *testing.T) {
	err := EvalErrorf(E3002, "division by zero in %s", "f")
	require.Equal(t, "division by zero in f", err.Error())
	require.True(t, err.IsFatal())
	require.Contains(t, err.FriendlyErrorMessage(), "runtime error[E3002]: division by zero in f")
	var target *EvalError
	require.True(t, As(fmt.Errorf("wrapped: %w", err), &target))
}

func TestInternalError(t *testing.T) {
	err := InternalErrorf("frame", "no frame for %s", "f")
	require.Equal(t, "internal error (frame): no frame for f", err.Error())
	require.True(t, err.IsFatal())
}

func TestUnsupported(t *testing.T) {
	err := Unsupportedf("array parameter %q", "a")
	require.True(t, Is(err, ErrUnsupported))
	require.Equal(t, `unsupported: array parameter "a"`, err.Error())
}

func TestErrorCode(t *testing.T) {
	require.Equal(t, "undefined name", E2001.Description())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
	require.Equal(t, "parse", E1001.Category())
	require.Equal(t, "compile", E2005.Category())
	require.Equal(t, "runtime", E3006.Category())
	require.Equal(t, "unknown", ErrorCode("X").Category())
}

func TestCompileError(t *testing.T) {
	err := &CompileError{
		Code:       E2001,
		Message:    "undefined name 'coutn'",
		Filename:   "a.pins",
		Line:       2,
		Column:     5,
		SourceLine: "    coutn + 1",
		Suggestions: []Suggestion{
			{Value: "count", Distance: 2},
		},
	}
	require.Equal(t,
		"compile error: undefined name 'coutn'\n\nlocation: a.pins:2:5 (line 2, column 5)",
		err.Error())
	msg := err.FriendlyErrorMessage()
	require.Contains(t, msg, "compile error[E2001]: undefined name 'coutn'")
	require.Contains(t, msg, "--> a.pins:2:5")
	require.Contains(t, msg, " 2 |     coutn + 1\n")
	require.Contains(t, msg, "    ^\n")
	require.Contains(t, msg, "hint: did you mean 'count'?")
}

func TestCompileErrors(t *testing.T) {
	var errs CompileErrors
	require.Nil(t, errs.ToError())
	errs.Add(&CompileError{Code: E2005, Message: "first", Line: 1, Column: 1})
	require.IsType(t, &CompileError{}, errs.ToError())
	errs.Add(&CompileError{Code: E2005, Message: "second", Line: 2, Column: 1})
	require.Equal(t, 2, errs.Count())

	err := errs.ToError()
	var merr *multierror.Error
	require.True(t, As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.True(t, strings.HasSuffix(err.Error(), "(and 1 more errors)"))

	friendly := FriendlyErrorMessage(err, false)
	require.Contains(t, friendly, "compile error[E2005]: first")
	require.Contains(t, friendly, "found 2 errors")
}

func TestFriendlyErrorMessagePlain(t *testing.T) {
	require.Equal(t, "boom", FriendlyErrorMessage(fmt.Errorf("boom"), false))
}

func TestFormatterColor(t *testing.T) {
	fe := &FormattedError{Code: E1001, Message: "unexpected token", Line: 1, Column: 1}
	plain := NewFormatter(false).Format(fe)
	colored := NewFormatter(true).Format(fe)
	require.NotContains(t, plain, "\x1b[")
	require.Contains(t, colored, "\x1b[")
}

func TestFormatterMultiCharUnderline(t *testing.T) {
	fe := &FormattedError{
		Message:     "bad",
		Line:        1,
		Column:      3,
		EndColumn:   6,
		SourceLines: []SourceLineEntry{{Number: 1, Text: "x + yyyy", IsMain: true}},
	}
	out := NewFormatter(false).Format(fe)
	require.Contains(t, out, "   |   ^^^^\n")
}

func TestSuggestSimilar(t *testing.T) {
	got := SuggestSimilar("fact", []string{"fac", "fcat", "main", "fact", "facts"})
	require.Equal(t, []Suggestion{{"fac", 1}, {"facts", 1}, {"fcat", 2}}, got)
	require.Nil(t, SuggestSimilar("", []string{"x"}))
	require.Equal(t, "did you mean 'a'?", FormatSuggestions([]Suggestion{{"a", 1}}))
	require.Equal(t, "did you mean one of: 'a', 'b'?", FormatSuggestions([]Suggestion{{"a", 1}, {"b", 1}}))
}

func TestEditDistance(t *testing.T) {
	require.Equal(t, 0, editDistance("abc", "abc"))
	require.Equal(t, 3, editDistance("", "abc"))
	require.Equal(t, 3, editDistance("kitten", "sitting"))
}
