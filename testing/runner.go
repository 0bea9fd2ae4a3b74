// Package testing runs test functions written in PINS.
//
// Test files are named *_test.pins. Every top-level function whose name
// starts with "test", takes no parameters and returns logical is a test. A
// test passes when it returns true. Each test runs on fresh runtime state.
package testing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pinslang/pins"
	"github.com/pinslang/pins/types"
)

// Config holds configuration for running tests.
type Config struct {
	// Patterns specifies files or directories to search for tests.
	// Default is current directory.
	Patterns []string

	// RunPattern filters tests to run by name regex.
	RunPattern string

	// Options are passed to both compilation and every test run.
	Options []pins.Option
}

// DiscoverTestFiles finds all *_test.pins files matching the given patterns.
// If no patterns are provided, searches the current directory.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		// A "..." suffix searches recursively
		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}

		switch {
		case !info.IsDir():
			add(pattern)
		case recursive:
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(searchDir, e.Name()))
				}
			}
		}
	}

	return files, nil
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.pins")
}

// DiscoverTestFunctions returns the test functions of a compiled program in
// source order.
func DiscoverTestFunctions(prog *pins.Program) []string {
	var tests []string
	for _, f := range prog.AST().Functions() {
		if !strings.HasPrefix(f.Name, "test") || len(f.Params) > 0 {
			continue
		}
		if result, ok := prog.ResultType(f.Name); ok && types.Is(result, types.Logical) {
			tests = append(tests, f.Name)
		}
	}
	return tests
}

// Run executes tests according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, runTestFile(ctx, file, runRe, cfg.Options))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()

	return summary, nil
}

// runTestFile executes all tests in a single file.
func runTestFile(ctx context.Context, filename string, runRe *regexp.Regexp, opts []pins.Option) *FileResult {
	result := &FileResult{Filename: filename}

	source, err := os.ReadFile(filename)
	if err != nil {
		result.CompileErr = err
		return result
	}
	prog, err := pins.Compile(string(source), append([]pins.Option{pins.WithFilename(filename)}, opts...)...)
	if err != nil {
		result.CompileErr = err
		return result
	}

	for _, name := range DiscoverTestFunctions(prog) {
		if runRe != nil && !runRe.MatchString(name) {
			continue
		}
		result.Tests = append(result.Tests, runSingleTest(ctx, prog, name, opts))
	}
	return result
}

// runSingleTest executes a single test function with empty input.
func runSingleTest(ctx context.Context, prog *pins.Program, name string, opts []pins.Option) *TestResult {
	result := &TestResult{Name: name}
	start := time.Now()

	var out bytes.Buffer
	opts = append(opts[:len(opts):len(opts)],
		pins.WithEntry(name),
		pins.WithStdin(strings.NewReader("")),
		pins.WithStdout(&out),
	)
	value, err := pins.Run(ctx, prog, opts...)
	result.Duration = time.Since(start)
	result.Output = out.String()

	switch {
	case err != nil:
		result.Status = StatusError
		result.Error = err
	case value == true:
		result.Status = StatusPassed
	default:
		result.Status = StatusFailed
		result.Error = fmt.Errorf("%s returned false", name)
	}
	return result
}
