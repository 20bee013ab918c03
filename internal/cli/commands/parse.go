package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/output"
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/parser"
)

// ErrParseFailed is returned after a parse error has been reported.
var ErrParseFailed = errors.New("parse failed")

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Backend string
}

// parseJSON is the JSON output of the parse command.
type parseJSON struct {
	Tree        string   `json:"tree"`
	Identifiers []string `json:"identifiers"`
	Variables   []string `json:"variables"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <expr>",
		Short: "Parse an expression and print its tree",
		Long: `Parse an expression with one backend and print the backend-independent
tree. Text output draws the tree; plain output is the one-line debug form.`,
		Example: `  formulate parse "a>=b & c!=3"
  formulate parse --backend root "TMath::Sqrt(x) * TMath::Pi()" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Backend, "backend", "b", "", "Backend to parse with (default: --from)")
	_ = cmd.RegisterFlagCompletionFunc("backend", completeBackends)

	return cmd
}

func runParse(cmd *cobra.Command, input string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	name := opts.Backend
	if name == "" {
		name = cmdCtx.Cfg.From
	}
	b, err := lookupBackend(name)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("parsing expression", "backend", b.Name(), "input", input)
	expr, err := parser.Parse(input, b)
	if err != nil {
		if r.EffectiveMode() == output.ModeJSON {
			return errors.Join(r.JSON(translateJSON{Input: input, Error: err.Error(), Kind: core.KindOf(err)}), ErrParseFailed)
		}
		r.Error(input, err)
		return ErrParseFailed
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(parseJSON{
			Tree:        expr.String(),
			Identifiers: identifierNames(expr),
			Variables:   nonNil(core.Variables(expr)),
		})
	case output.ModeText:
		for _, line := range treeLines(expr, b) {
			r.Println(line)
		}
	default:
		r.Println(expr.String())
	}
	return nil
}

func identifierNames(expr core.Expr) []string {
	ids := core.Identifiers(expr)
	names := make([]string, 0, len(ids))
	for id := range ids {
		names = append(names, id.String())
	}
	sort.Strings(names)
	return names
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// treeLines draws expr as an indented tree, labelling each operation with
// its spelling in b.
func treeLines(expr core.Expr, b *backend.Backend) []string {
	var lines []string
	var walk func(e core.Expr, prefix string, last, root bool)
	walk = func(e core.Expr, prefix string, last, root bool) {
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		if root {
			branch, indent = "", ""
		}
		lines = append(lines, prefix+branch+nodeLabel(e, b))

		if x, ok := e.(*core.Expression); ok {
			for i := range x.NumArgs() {
				walk(x.Arg(i), prefix+indent, i == x.NumArgs()-1, false)
			}
		}
	}
	walk(expr, "", true, true)
	return lines
}

func nodeLabel(e core.Expr, b *backend.Backend) string {
	switch x := e.(type) {
	case *core.Expression:
		if spelling, ok := b.Spelling(x.ID()); ok {
			return fmt.Sprintf("%s %q", x.ID(), spelling)
		}
		return x.ID().String()
	case *core.Variable:
		return "var " + x.Name()
	case *core.Constant:
		if x.IsNamed() {
			return "const " + x.ID().String()
		}
		v, _ := x.Value()
		return "num " + core.FormatNumber(v)
	default:
		return strings.TrimSpace(fmt.Sprint(e))
	}
}
