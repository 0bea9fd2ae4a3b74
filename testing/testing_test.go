package testing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	stdt "testing"

	"github.com/pinslang/pins"
	"github.com/pinslang/pins/errors"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *stdt.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStatusString(t *stdt.T) {
	require.Equal(t, "PASS", StatusPassed.String())
	require.Equal(t, "FAIL", StatusFailed.String())
	require.Equal(t, "ERROR", StatusError.String())
}

func TestExamples(t *stdt.T) {
	summary, err := Run(context.Background(), &Config{Patterns: []string{"../examples"}})
	require.Nil(t, err)
	require.Len(t, summary.Files, 5)
	for _, f := range summary.Files {
		require.Nil(t, f.CompileErr, f.Filename)
		for _, test := range f.Tests {
			require.Equal(t, StatusPassed, test.Status, "%s: %v", test.Name, test.Error)
		}
	}
	require.Equal(t, 11, summary.Passed)
	require.True(t, summary.Success())
}

func TestDiscoverTestFiles(t *stdt.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.Nil(t, os.Mkdir(sub, 0o755))
	a := writeTestFile(t, dir, "a_test.pins", "")
	writeTestFile(t, dir, "main.pins", "")
	b := writeTestFile(t, sub, "b_test.pins", "")

	files, err := DiscoverTestFiles([]string{dir})
	require.Nil(t, err)
	require.Equal(t, []string{a}, files)

	files, err = DiscoverTestFiles([]string{dir + "/..."})
	require.Nil(t, err)
	require.Equal(t, []string{a, b}, files)

	files, err = DiscoverTestFiles([]string{filepath.Join(dir, "*.pins"), a})
	require.Nil(t, err)
	require.Equal(t, []string{a}, files)

	_, err = DiscoverTestFiles([]string{filepath.Join(dir, "missing")})
	require.ErrorContains(t, err, "path not found")
}

func TestDiscoverTestFunctions(t *stdt.T) {
	prog, err := pins.Compile(`
fun testA() : logical = true;
fun helper() : logical = true;
fun testWithParam(x : integer) : logical = x > 0;
fun testInteger() : integer = 1;
fun testB() : logical = false`)
	require.Nil(t, err)
	require.Equal(t, []string{"testA", "testB"}, DiscoverTestFunctions(prog))
}

func TestFailuresAndErrors(t *stdt.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "mixed_test.pins", `
fun testPass() : logical = (putInt(1), true);
fun testFail() : logical = (putInt(2), 1 > 2);
fun testDivide() : logical = 1 / 0 == 0`)
	writeTestFile(t, dir, "broken_test.pins", `fun testX() : logical = y`)

	summary, err := Run(context.Background(), &Config{Patterns: []string{dir}})
	require.Nil(t, err)
	require.Equal(t, 1, summary.Passed)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 1, summary.Errors)
	require.Equal(t, 1, summary.CompileErrors)
	require.False(t, summary.Success())

	var mixed *FileResult
	for _, f := range summary.Files {
		if filepath.Base(f.Filename) == "mixed_test.pins" {
			mixed = f
		} else {
			var compileErr *errors.CompileError
			require.True(t, errors.As(f.CompileErr, &compileErr))
		}
	}
	require.NotNil(t, mixed)
	require.Len(t, mixed.Tests, 3)
	require.Equal(t, "1\n", mixed.Tests[0].Output)
	require.Equal(t, StatusFailed, mixed.Tests[1].Status)
	require.EqualError(t, mixed.Tests[1].Error, "testFail returned false")

	var evalErr *errors.EvalError
	require.True(t, errors.As(mixed.Tests[2].Error, &evalErr))
	require.Equal(t, errors.E3002, evalErr.Code)

	var out bytes.Buffer
	NewOutput(OutputConfig{Writer: &out}).PrintResults(summary)
	text := out.String()
	require.Contains(t, text, "COMPILE ERROR: "+filepath.Join(dir, "broken_test.pins"))
	require.Contains(t, text, "--- PASS: testPass")
	require.Contains(t, text, "--- FAIL: testFail")
	require.Contains(t, text, "    testFail returned false\n    2\n")
	require.Contains(t, text, "--- ERROR: testDivide")
	require.NotContains(t, text, "    1\n")
	require.Contains(t, text, "1 passed, 1 failed, 1 errors, 1 files failed to compile")
}

func TestRunPattern(t *stdt.T) {
	summary, err := Run(context.Background(), &Config{
		Patterns:   []string{"../examples"},
		RunPattern: "^testFor$|Static",
	})
	require.Nil(t, err)
	var names []string
	for _, f := range summary.Files {
		for _, test := range f.Tests {
			names = append(names, test.Name)
		}
	}
	require.Equal(t, []string{"testFor", "testStaticLinks"}, names)

	_, err = Run(context.Background(), &Config{RunPattern: "("})
	require.ErrorContains(t, err, "invalid run pattern")
}

func TestOptionsReachTests(t *stdt.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "deep_test.pins", `
fun testDeep() : logical = down(50) == 0 { where
	fun down(n : integer) : integer = ({ if n > 0 then { r = down(n - 1) } else { r = 0 } }, r)
		{ where var r : integer }
}`)
	summary, err := Run(context.Background(), &Config{Patterns: []string{dir}})
	require.Nil(t, err)
	require.True(t, summary.Success())

	summary, err = Run(context.Background(), &Config{
		Patterns: []string{dir},
		Options:  []pins.Option{pins.WithMaxDepth(10)},
	})
	require.Nil(t, err)
	var evalErr *errors.EvalError
	require.True(t, errors.As(summary.Files[0].Tests[0].Error, &evalErr))
	require.Equal(t, errors.E3006, evalErr.Code)
}
