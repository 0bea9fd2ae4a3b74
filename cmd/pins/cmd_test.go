package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pinslang/pins/errors"
	"github.com/stretchr/testify/require"
)

const factSource = `
fun fact(n : integer) : integer = ({ if n <= 1 then { r = 1 } else { r = n * fact(n - 1) } }, r) { where var r : integer };
fun main() : integer = fact(5)`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, "fact.pins", factSource)
	out, _, err := execute(t, "", "run", path)
	require.Nil(t, err)
	require.Equal(t, "120\n", out)
}

func TestRunEntryWithArgs(t *testing.T) {
	path := writeFile(t, "fact.pins", factSource)
	out, _, err := execute(t, "", "run", "--entry", "fact", path, "6")
	require.Nil(t, err)
	require.Equal(t, "720\n", out)
}

func TestRunExample(t *testing.T) {
	out, _, err := execute(t, "", "run", "../../examples/fact.pins")
	require.Nil(t, err)
	require.Equal(t, "1\n2\n6\n24\n120\n720\n5040\n40320\n362880\n3628800\n3628800\n", out)

	out, _, err = execute(t, "", "run", "--entry", "fact", "../../examples/fact.pins", "12")
	require.Nil(t, err)
	require.Equal(t, "479001600\n", out)
}

func TestRunCode(t *testing.T) {
	out, _, err := execute(t, "", "run", "-c", `fun main() : string = 'hello'`)
	require.Nil(t, err)
	require.Equal(t, "hello\n", out)
}

func TestRunJSONOutput(t *testing.T) {
	out, _, err := execute(t, "", "run", "-o", "json", "-c", `fun main() : logical = 1 < 2`)
	require.Nil(t, err)
	var result bool
	require.Nil(t, json.Unmarshal([]byte(out), &result))
	require.True(t, result)
}

func TestRunProgramIO(t *testing.T) {
	out, _, err := execute(t, "4", "run", "-c", `
var n : integer;
fun main() : integer = (getInt(n), putInt(n * n), n)`)
	require.Nil(t, err)
	require.Equal(t, "16\n4\n", out)
}

func TestRunStdinSource(t *testing.T) {
	out, _, err := execute(t, `fun main() : integer = 6 * 7`, "run", "--stdin")
	require.Nil(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunMultipleSources(t *testing.T) {
	_, _, err := execute(t, "", "run", "--stdin", "-c", `fun main() : integer = 1`)
	require.EqualError(t, err, "multiple input sources specified")
}

func TestRunNoInput(t *testing.T) {
	_, _, err := execute(t, "", "run")
	require.EqualError(t, err, "no input provided")
}

func TestRunStackOverflow(t *testing.T) {
	_, _, err := execute(t, "", "run", "--max-depth", "16", "-c", `fun main() : integer = main()`)
	var evalErr *errors.EvalError
	require.True(t, errors.As(err, &evalErr))
	require.Equal(t, errors.E3006, evalErr.Code)
}

func TestRunTrace(t *testing.T) {
	_, stderr, err := execute(t, "", "run", "--trace", "-c", `fun main() : integer = 1`)
	require.Nil(t, err)
	require.Contains(t, stderr, "compiled")
	require.Contains(t, stderr, "call")
	require.Contains(t, stderr, "return")
}

func TestIRTree(t *testing.T) {
	path := writeFile(t, "fact.pins", factSource)
	out, _, err := execute(t, "", "ir", path)
	require.Nil(t, err)
	require.Contains(t, out, "_fact")
	require.Contains(t, out, "_main")
}

func TestIRLinearFunction(t *testing.T) {
	path := writeFile(t, "fact.pins", factSource)
	out, _, err := execute(t, "", "ir", "--linear", "--func", "fact", path)
	require.Nil(t, err)
	require.Contains(t, out, "CJUMP")
	require.NotContains(t, out, "_main")

	_, _, err = execute(t, "", "ir", "--func", "missing", path)
	require.EqualError(t, err, `function "missing" not found`)
}

func TestFrames(t *testing.T) {
	path := writeFile(t, "fact.pins", factSource)
	out, _, err := execute(t, "", "frames", path)
	require.Nil(t, err)
	require.Contains(t, out, "FUNCTION")
	require.Contains(t, out, "_fact")
	require.NotContains(t, out, "putInt")
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.pins", factSource)
	bad := writeFile(t, "bad.pins", `fun main() : integer = y`)

	out, _, err := execute(t, "", "check", good)
	require.Nil(t, err)
	require.Equal(t, good+": ok\n", out)

	out, stderr, err := execute(t, "", "check", good, bad)
	require.EqualError(t, err, "1 error(s) found")
	require.Equal(t, good+": ok\n", out)
	require.Contains(t, stderr, "E2001")
}

func TestTestCommand(t *testing.T) {
	out, _, err := execute(t, "", "test", "-v", "../../examples")
	require.Nil(t, err)
	require.Contains(t, out, "--- PASS: testStaticLinks")
	require.Contains(t, out, "    hello\n")
	require.Contains(t, out, "11 passed")

	path := writeFile(t, "bad_test.pins", `fun testBad() : logical = false`)
	out, _, err = execute(t, "", "test", filepath.Dir(path))
	require.EqualError(t, err, "tests failed")
	require.Contains(t, out, "--- FAIL: testBad")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.Nil(t, err)
	require.Equal(t, "pins dev (commit unknown, built unknown)\n", out)

	out, _, err = execute(t, "", "version", "-o", "json")
	require.Nil(t, err)
	var info map[string]string
	require.Nil(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "dev", info["version"])
}

func TestParseArgs(t *testing.T) {
	require.Equal(t, []any{1, true, "x", -3}, parseArgs([]string{"1", "true", "x", "-3"}))
}
