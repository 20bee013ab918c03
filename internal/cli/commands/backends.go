package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/output"
	"github.com/leapstack-labs/formulate/pkg/backend"
)

// backendFormats are the values accepted by backends show --format.
var backendFormats = []string{"table", "yaml", "json"}

// backendSummary is one row of backends list in JSON mode.
type backendSummary struct {
	Name          string `json:"name"`
	Normalization string `json:"normalization"`
	Operators     int    `json:"operators"`
	Functions     int    `json:"functions"`
	Constants     int    `json:"constants"`
}

// NewBackendsCommand creates the backends command group.
func NewBackendsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Inspect registered backends",
		Long: `List the registered backends or show one backend's operators, functions
and constants. Backends loaded from backends_dir are included.`,
	}

	cmd.AddCommand(newBackendsListCommand())
	cmd.AddCommand(newBackendsShowCommand())
	return cmd
}

func newBackendsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackendsList(cmd)
		},
	}
}

func runBackendsList(cmd *cobra.Command) error {
	r := NewCommandContext(cmd).Renderer

	summaries := make([]backendSummary, 0)
	for _, name := range backend.List() {
		b, ok := backend.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, backendSummary{
			Name:          b.Name(),
			Normalization: b.Normalization().String(),
			Operators:     len(b.Operators()),
			Functions:     len(b.Functions()),
			Constants:     len(b.Constants()),
		})
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(summaries)
	case output.ModePlain:
		for _, s := range summaries {
			r.Println(s.Name)
		}
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			s.Normalization,
			strconv.Itoa(s.Operators),
			strconv.Itoa(s.Functions),
			strconv.Itoa(s.Constants),
		})
	}
	r.Table([]string{"Name", "Normalization", "Operators", "Functions", "Constants"}, rows)
	return nil
}

func newBackendsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one backend's descriptors",
		Example: `  formulate backends show numexpr
  formulate backends show root --format yaml > root.yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBackends,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackendsShow(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|yaml|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return backendFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBackendsShow(cmd *cobra.Command, name, format string) error {
	r := NewCommandContext(cmd).Renderer

	b, err := lookupBackend(name)
	if err != nil {
		return err
	}

	// -o json wins over the default table format.
	if format == "table" && r.EffectiveMode() == output.ModeJSON {
		format = "json"
	}

	switch format {
	case "yaml":
		return backend.WriteYAML(r.Writer(), b)
	case "json":
		return r.JSON(b)
	case "table":
		showBackendTable(r, b)
		return nil
	default:
		return fmt.Errorf("invalid format %q (valid: table, yaml, json)", format)
	}
}

func showBackendTable(r *output.Renderer, b *backend.Backend) {
	r.Header(fmt.Sprintf("%s (%s)", b.Name(), b.Normalization()))

	rows := make([][]string, 0)
	for _, op := range b.Operators() {
		assoc := ""
		if op.Fixity == backend.Infix {
			assoc = op.Assoc.String()
		}
		rows = append(rows, []string{op.ID.String(), op.Token, op.Fixity.String(), op.Precedence.String(), assoc})
	}
	r.Println()
	r.Table([]string{"Operator", "Token", "Fixity", "Precedence", "Assoc"}, rows)

	rows = rows[:0]
	for _, fn := range b.Functions() {
		rows = append(rows, []string{fn.ID.String(), fn.Token, strconv.Itoa(fn.Arity)})
	}
	r.Println()
	r.Table([]string{"Function", "Token", "Arity"}, rows)

	rows = rows[:0]
	for _, c := range b.Constants() {
		rows = append(rows, []string{c.ID.String(), c.Spelling()})
	}
	r.Println()
	r.Table([]string{"Constant", "Spelling"}, rows)
}
