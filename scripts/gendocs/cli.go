package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/formulate/internal/cli"
	"github.com/leapstack-labs/formulate/internal/cli/config"
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/translate"
)

// backendCommands take expressions, so their pages list the backends that
// --from, --to and --backend accept.
var backendCommands = map[string]bool{
	"translate": true,
	"parse":     true,
	"repl":      true,
	"serve":     true,
}

// serverFlags live under the server section of the config.
var serverFlags = map[string]bool{"addr": true, "watch": true}

// generateCLIDocs writes an index page plus one page per top-level command.
// Subcommands are documented as sections of their parent's page.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	tr := translate.New(translate.Config{})

	pages := map[string][]byte{"index": cliIndex(rootCmd)}
	for _, cmd := range documented(rootCmd) {
		pages[cmd.Name()] = commandPage(cmd, tr)
	}

	for name, data := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), data, 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", name, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

func documented(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range parent.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(rootCmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for formulate")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(rootCmd.Long)

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(rootCmd) {
		link := fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(rootCmd.PersistentFlags()))

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s in the working directory (or %s), then from environment variables, then from flags. Later sources win.",
		InlineCode("formulate.yaml"), InlineCode("--config")))
	w.Table([]string{"Variable", "Key", "Flag"}, envRows(rootCmd))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Every expression translated"},
		{InlineCode("1"), "A usage or configuration error, or at least one expression failed (each failure is reported on stderr)"},
	})

	return w.Bytes()
}

// envRows derives the environment variables from the flags that the config
// loader maps to keys: persistent flags plus serve's server section.
func envRows(rootCmd *cobra.Command) [][]string {
	var rows [][]string
	add := func(f *pflag.Flag, key string) {
		env := config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
		rows = append(rows, []string{InlineCode(env), InlineCode(key), InlineCode("--" + f.Name)})
	}

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Hidden {
			return
		}
		add(f, strings.ReplaceAll(f.Name, "-", "_"))
	})
	if serve, _, err := rootCmd.Find([]string{"serve"}); err == nil {
		serve.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if serverFlags[f.Name] {
				add(f, "server."+f.Name)
			}
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

func commandPage(cmd *cobra.Command, tr *translate.Translator) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	writeCommand(w, cmd, 2, tr)

	if cmd.HasSubCommands() {
		for _, sub := range documented(cmd) {
			w.Header(2, cmd.Name()+" "+sub.Name())
			w.Paragraph(sub.Short)
			writeCommand(w, sub, 3, tr)
		}
	}

	if backendCommands[cmd.Name()] {
		writeBackends(w)
	}

	if cmd.HasInheritedFlags() {
		w.Paragraph("Global options such as " + InlineCode("--from") + " and " + InlineCode("-o") + " are listed in the [CLI reference](index.md#global-options).")
	}
	return w.Bytes()
}

// writeCommand renders usage, local flags and examples at the given heading level.
func writeCommand(w *MarkdownWriter, cmd *cobra.Command, level int, tr *translate.Translator) {
	if cmd.Runnable() {
		w.Header(level, "Usage")
		w.CodeBlock("bash", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	if rows := flagRows(cmd.LocalNonPersistentFlags()); len(rows) > 0 {
		w.Header(level, "Options")
		w.Table(flagHeaders, rows)
	}

	if cmd.Example != "" {
		w.Header(level, "Examples")
		w.CodeBlock("bash", annotateExamples(cleanExample(cmd.Example), tr))
	}
}

// writeBackends lists the registered backends with links to their pages.
func writeBackends(w *MarkdownWriter) {
	w.Header(2, "Backends")
	w.Paragraph(fmt.Sprintf("Shell completion for %s, %s and %s offers these names. Backends loaded with %s are accepted too.",
		InlineCode("--from"), InlineCode("--to"), InlineCode("--backend"), InlineCode("--backends-dir")))

	var rows [][]string
	for _, name := range backend.List() {
		b, err := backend.Lookup(name)
		if err != nil {
			continue
		}
		defaults := ""
		switch name {
		case config.DefaultFrom:
			defaults = "default " + InlineCode("--from")
		case config.DefaultTo:
			defaults = "default " + InlineCode("--to")
		}
		link := fmt.Sprintf("[%s](../backends/%s.md)", InlineCode(name), name)
		rows = append(rows, []string{link, b.Normalization().String(), defaults})
	}
	w.Table([]string{"Backend", "Matching", "Notes"}, rows)
}

// annotateExamples appends the result under every single-expression
// translate example, so the docs show real output.
func annotateExamples(example string, tr *translate.Translator) string {
	lines := strings.Split(example, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line)
		expr, from, to, ok := translateExample(line)
		if !ok {
			continue
		}
		fromB, err := backend.Lookup(from)
		if err != nil {
			continue
		}
		toB, err := backend.Lookup(to)
		if err != nil {
			continue
		}
		if result, err := tr.Translate(expr, fromB, toB); err == nil {
			out = append(out, "# => "+result)
		}
	}
	return strings.Join(out, "\n")
}

// translateExample extracts the expression and backends from a line such as
// `formulate translate --from numexpr --to root "sqrt(x)"`.
func translateExample(line string) (expr, from, to string, ok bool) {
	args := splitArgs(line)
	if len(args) < 3 || args[0] != "formulate" || args[1] != "translate" {
		return "", "", "", false
	}
	from, to = config.DefaultFrom, config.DefaultTo
	var exprs []string
	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "--from", "--to":
			if i+1 >= len(args) {
				return "", "", "", false
			}
			if args[i] == "--from" {
				from = args[i+1]
			} else {
				to = args[i+1]
			}
			i++
		default:
			if strings.HasPrefix(args[i], "-") {
				return "", "", "", false
			}
			exprs = append(exprs, args[i])
		}
	}
	if len(exprs) != 1 {
		return "", "", "", false
	}
	return exprs[0], from, to, true
}

// splitArgs splits a shell line on spaces, keeping double-quoted words whole.
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inWord  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case r == ' ' && !quoted:
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, current.String())
	}
	return args
}

var flagHeaders = []string{"Option", "Short", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		defVal := f.DefValue
		if defVal != "" && f.Value.Type() == "string" {
			defVal = InlineCode(defVal)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, defVal, cleanDescription(f.Usage)})
	})
	return rows
}

// cleanExample removes the common indentation of cobra Example text.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
