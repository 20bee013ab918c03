package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/output"
	"github.com/leapstack-labs/formulate/pkg/core"
	"github.com/leapstack-labs/formulate/pkg/translate"
)

// ErrTranslateFailed is returned when at least one input failed to translate.
var ErrTranslateFailed = errors.New("translation failed")

// TranslateOptions holds options for the translate command.
type TranslateOptions struct {
	File string
}

// translateJSON is one entry of the JSON output.
type translateJSON struct {
	Input  string `json:"input"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	opts := &TranslateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [expr...]",
		Short: "Translate expressions between backends",
		Long: `Translate expressions from the --from backend's syntax to the --to backend's.

Expressions come from the arguments, from --file (one per line), or from
standard input when neither is given. Blank lines are skipped.

Output adapts to environment:
  - Terminal: input → result, errors with a caret under the position
  - Piped/Scripted: one result per line

Use --output to override: auto, text, plain, json`,
		Example: `  # numexpr to ROOT
  formulate translate --from numexpr --to root "sqrt(x) > 0 & y != 3.141592653589793"

  # Translate a file of expressions as JSON
  formulate translate --from root --to numexpr --file cuts.txt -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read expressions from a file, one per line")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *TranslateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	from, to, err := cmdCtx.Backends()
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd, args, opts.File)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no expressions to translate")
	}

	results, err := cmdCtx.Translator().TranslateAll(cmd.Context(), inputs, from, to)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(toTranslateJSON(results)); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Err != nil {
				r.Error(res.Input, res.Err)
				continue
			}
			r.Translation(res.Input, res.Output)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d expression(s)", ErrTranslateFailed, failed, len(results))
	}
	return nil
}

func toTranslateJSON(results []translate.Result) []translateJSON {
	out := make([]translateJSON, 0, len(results))
	for _, res := range results {
		entry := translateJSON{Input: res.Input, Result: res.Output}
		if res.Err != nil {
			entry.Error = res.Err.Error()
			entry.Kind = core.KindOf(res.Err)
		}
		out = append(out, entry)
	}
	return out
}

// readInputs collects expressions from args, a file, or stdin.
func readInputs(cmd *cobra.Command, args []string, file string) ([]string, error) {
	if len(args) > 0 && file != "" {
		return nil, fmt.Errorf("use either arguments or --file, not both")
	}
	if len(args) > 0 {
		return args, nil
	}

	var src io.Reader = cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file) //nolint:gosec // user-supplied input path
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}
	return readLines(src)
}

func readLines(src io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return lines, nil
}
