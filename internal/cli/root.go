// Package cli provides the command-line interface for formulate.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/commands"
	"github.com/leapstack-labs/formulate/internal/cli/config"
	"github.com/leapstack-labs/formulate/pkg/backend"

	// Built-in backends register themselves.
	_ "github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	_ "github.com/leapstack-labs/formulate/pkg/backends/root"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "formulate",
		Short: "formulate - expression translator",
		Long: `formulate translates expressions between the syntaxes of different
evaluation backends, such as numexpr and ROOT's TFormula.

Expressions are parsed into a backend-independent tree and written back
out with the destination backend's operators, functions and constants.
Extra backends can be defined in YAML files under backends_dir.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return setup(cmd, cfgFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Expression translator
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./formulate.yaml)")
	rootCmd.PersistentFlags().String("from", "", "Source backend (default: "+config.DefaultFrom+")")
	rootCmd.PersistentFlags().String("to", "", "Destination backend (default: "+config.DefaultTo+")")
	rootCmd.PersistentFlags().String("backends-dir", "", "Directory of YAML backend definitions")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Parallel translations for batch input")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|plain|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputModes(), cobra.ShellCompDirectiveNoFileComp
	})
	backendNames := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return backend.List(), cobra.ShellCompDirectiveNoFileComp
	}
	_ = rootCmd.RegisterFlagCompletionFunc("from", backendNames)
	_ = rootCmd.RegisterFlagCompletionFunc("to", backendNames)
	_ = rootCmd.MarkPersistentFlagDirname("backends-dir")

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewTranslateCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewBackendsCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// setup loads configuration, builds the logger and registers backends from
// backends_dir, storing config and logger in the command context.
func setup(cmd *cobra.Command, cfgFile string) error {
	res, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg := res.Config

	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if res.FileUsed != "" {
		logger.Debug("using config file", "path", res.FileUsed)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, config.LoggerKey(), logger)
	ctx = config.WithConfig(ctx, cfg)
	cmd.SetContext(ctx)

	if err := cfg.ValidateDirectories(); err != nil {
		return err
	}
	if cfg.BackendsDir == "" {
		return nil
	}

	loaded, err := backend.LoadDir(cfg.BackendsDir)
	for _, b := range loaded {
		backend.Register(b)
		logger.Debug("registered backend", "name", b.Name(), "dir", cfg.BackendsDir)
	}
	if err != nil {
		return fmt.Errorf("failed to load backends: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for formulate.

To load completions:

Bash:
  $ source <(formulate completion bash)

Zsh:
  $ formulate completion zsh > "${fpath[1]}/_formulate"

Fish:
  $ formulate completion fish | source

PowerShell:
  PS> formulate completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
