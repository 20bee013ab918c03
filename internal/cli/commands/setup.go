// Package commands implements the formulate CLI commands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/config"
	"github.com/leapstack-labs/formulate/internal/cli/output"
	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/translate"
)

// CommandContext holds what every command needs.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// Translator returns a translator configured from the command context.
func (c *CommandContext) Translator() *translate.Translator {
	return translate.New(translate.Config{Logger: c.Logger, Concurrency: c.Cfg.Concurrency})
}

// Backends resolves the source and destination backends, honoring the
// --from and --to overrides already folded into the config.
func (c *CommandContext) Backends() (from, to *backend.Backend, err error) {
	if from, err = lookupBackend(c.Cfg.From); err != nil {
		return nil, nil, err
	}
	if to, err = lookupBackend(c.Cfg.To); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func lookupBackend(name string) (*backend.Backend, error) {
	b, err := backend.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w\nHint: set backends_dir to load backends from YAML files", err)
	}
	return b, nil
}

// completeBackends completes backend names for flags and arguments.
func completeBackends(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return backend.List(), cobra.ShellCompDirectiveNoFileComp
}
