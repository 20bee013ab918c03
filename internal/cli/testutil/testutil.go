// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/output"
)

// PythonBackendYAML defines a small Python-flavoured backend for tests.
const PythonBackendYAML = `name: python
normalization: case_sensitive
operators:
  - {id: MINUS, token: "-", fixity: prefix, precedence: unary}
  - {id: NOT, token: "not", fixity: prefix, precedence: 3}
  - {id: ADD, token: "+", precedence: additive, associativity: left}
  - {id: SUB, token: "-", precedence: additive}
  - {id: MUL, token: "*", precedence: multiplicative}
  - {id: DIV, token: "/", precedence: multiplicative}
  - {id: POW, token: "**", precedence: power, associativity: right}
  - {id: GT, token: ">", precedence: comparison, associativity: none}
  - {id: GTEQ, token: ">=", precedence: comparison, associativity: none}
  - {id: NEQ, token: "!=", precedence: comparison, associativity: none}
  - {id: AND, token: "and", precedence: 2}
  - {id: OR, token: "or", precedence: 1}
functions:
  - {id: SQRT, token: sqrt}
  - {id: ABS, token: abs}
constants:
  - {id: PI, token: pi}
  - {id: "TRUE", token: "True"}
  - {id: "FALSE", token: "False"}
`

// SetupBackendsDir creates a temporary backends directory holding
// python.yaml and returns its path.
func SetupBackendsDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "python.yaml"), []byte(PythonBackendYAML), 0o600); err != nil {
		t.Fatalf("failed to create python.yaml: %v", err)
	}
	return dir
}

// Result is the captured outcome of one command execution.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Run executes cmd with args, feeding stdin, and captures both outputs.
func Run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) Result {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return Result{Stdout: out.String(), Stderr: errOut.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererPlain creates a new test renderer in plain mode.
func NewTestRendererPlain() *TestRenderer {
	return NewTestRenderer(output.ModePlain, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
