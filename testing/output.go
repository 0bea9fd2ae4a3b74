package testing

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pinslang/pins/errors"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Writer is where output is written.
	Writer io.Writer

	// Verbose shows the program output of passing tests too.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output handles formatting and printing test results.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

// StartTest prints the "=== RUN" line for a test.
func (o *Output) StartTest(name string) {
	fmt.Fprintf(o.w, "=== RUN   %s\n", name)
}

// EndTest prints the result line for a test (--- PASS, --- FAIL, etc.).
func (o *Output) EndTest(result *TestResult) {
	var status string
	switch result.Status {
	case StatusPassed:
		status = o.colorize(green, "--- PASS:")
	case StatusFailed:
		status = o.colorize(red, "--- FAIL:")
	case StatusError:
		status = o.colorize(red, "--- ERROR:")
	default:
		status = fmt.Sprintf("--- %s:", result.Status)
	}
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", status, result.Name, result.Duration.Seconds())

	if result.Error != nil {
		o.indent(errors.FriendlyErrorMessage(result.Error, o.useColor))
	}
	if o.verbose || result.Status != StatusPassed {
		o.indent(result.Output)
	}
}

func (o *Output) indent(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(o.w, "    %s\n", line)
	}
}

// CompileError prints a compilation error for a test file.
func (o *Output) CompileError(filename string, err error) {
	fmt.Fprintf(o.w, "%s %s\n", o.colorize(red, "COMPILE ERROR:"), filename)
	o.indent(errors.FriendlyErrorMessage(err, o.useColor))
}

// Summary prints the final summary line.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)

	if summary.Success() {
		fmt.Fprintln(o.w, o.colorize(green, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.colorize(red, "FAIL"))
	}

	var parts []string
	if summary.Passed > 0 {
		parts = append(parts, o.colorize(green, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.colorize(red, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.colorize(red, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if summary.CompileErrors > 0 {
		parts = append(parts, o.colorize(yellow, fmt.Sprintf("%d files failed to compile", summary.CompileErrors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

// colorize applies color if enabled.
func (o *Output) colorize(c *color.Color, s string) string {
	if o.useColor {
		return c.Sprint(s)
	}
	return s
}

// PrintResults prints all results in Go test style.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		if file.CompileErr != nil {
			o.CompileError(file.Filename, file.CompileErr)
		}
	}
	for _, file := range summary.Files {
		for _, test := range file.Tests {
			o.StartTest(test.Name)
			o.EndTest(test)
		}
	}
	o.Summary(summary)
}
