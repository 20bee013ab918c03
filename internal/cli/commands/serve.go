package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/formulate/internal/cli/config"
	"github.com/leapstack-labs/formulate/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Long: `Start an HTTP server that translates expressions.

Endpoints:
  GET  /backends          list backend names
  GET  /backends/{name}   show one backend
  POST /translate         {"expression": "...", "from": "...", "to": "..."}

from and to default to the --from and --to settings. With --watch, YAML
files in backends_dir are reloaded when they change.`,
		Example: `  # Serve on the default address
  formulate serve

  # Custom address, reloading backends on change
  formulate serve --addr 127.0.0.1:9000 --backends-dir ./backends --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Values are read back through the config loader as server.addr/server.watch.
	cmd.Flags().String("addr", "", "Address to listen on (default: "+config.DefaultServerAddr+")")
	cmd.Flags().Bool("watch", false, "Reload backends_dir when backend files change")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	srvCfg := cmdCtx.Cfg.GetServerConfig()

	// Fail fast on a misconfigured default pair.
	if _, _, err := cmdCtx.Backends(); err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:        srvCfg.Addr,
		Logger:      cmdCtx.Logger,
		Translator:  cmdCtx.Translator(),
		DefaultFrom: cmdCtx.Cfg.From,
		DefaultTo:   cmdCtx.Cfg.To,
		BackendsDir: cmdCtx.Cfg.BackendsDir,
		Watch:       srvCfg.Watch,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Muted("Listening on " + srvCfg.Addr + " (Ctrl+C to stop)")
	return srv.Serve(ctx)
}
