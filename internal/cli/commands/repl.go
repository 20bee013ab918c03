package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/output"
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/translate"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Translate expressions interactively",
		Long: `Start an interactive session that translates each line from the --from
backend to the --to backend. Dot-commands switch backends mid-session.`,
		Example: `  formulate repl --from numexpr --to root`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd)
		},
	}
}

func runRepl(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)

	from, to, err := cmdCtx.Backends()
	if err != nil {
		return err
	}
	s := &replSession{
		translator: cmdCtx.Translator(),
		renderer:   cmdCtx.Renderer,
		from:       from,
		to:         to,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     historyFile(),
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Header("formulate REPL")
	r.Muted("Type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := s.eval(line); quit {
			return nil
		}
		rl.SetPrompt(s.prompt())
	}
}

// historyFile returns the REPL history path, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "formulate")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

// replSession holds the state of one REPL.
type replSession struct {
	translator *translate.Translator
	renderer   *output.Renderer
	from       *backend.Backend
	to         *backend.Backend
}

func (s *replSession) prompt() string {
	return fmt.Sprintf("%s→%s> ", s.from.Name(), s.to.Name())
}

// eval handles one input line and reports whether the session should end.
func (s *replSession) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if isDotCommand(line) {
		return s.dotCommand(line)
	}

	result, err := s.translator.Translate(line, s.from, s.to)
	if err != nil {
		s.renderer.Error(line, err)
		return false
	}
	s.renderer.Println(result)
	return false
}

// isDotCommand reports whether line is a command such as ".swap" rather than
// an expression such as ".5 * a".
func isDotCommand(line string) bool {
	return len(line) > 1 && line[0] == '.' && unicode.IsLetter(rune(line[1]))
}

func (s *replSession) dotCommand(line string) bool {
	r := s.renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(r.Writer())

	case ".from", ".to":
		if len(parts) < 2 {
			r.Printf("from: %s, to: %s\n", s.from.Name(), s.to.Name())
			return false
		}
		b, err := backend.Lookup(parts[1])
		if err != nil {
			r.Error(line, err)
			return false
		}
		if command == ".from" {
			s.from = b
		} else {
			s.to = b
		}

	case ".swap":
		s.from, s.to = s.to, s.from

	case ".backends":
		for _, name := range backend.List() {
			r.Println(name)
		}

	default:
		r.Error(line, fmt.Errorf("unknown command %s (type .help for commands)", command))
	}
	return false
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .from [name]     Show or set the source backend
  .to [name]       Show or set the destination backend
  .swap            Swap source and destination
  .backends        List registered backends
  .quit / .exit    Exit the REPL

Any other line is translated and printed.
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter completes dot-commands and backend names.
func newReplCompleter() *readline.PrefixCompleter {
	names := func(string) []string { return backend.List() }
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".from", readline.PcItemDynamic(names)),
		readline.PcItem(".to", readline.PcItemDynamic(names)),
		readline.PcItem(".swap"),
		readline.PcItem(".backends"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
