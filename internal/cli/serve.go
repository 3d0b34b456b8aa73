package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/web"
)

// NewServeCmd creates the serve command, which runs the web dashboard until interrupted.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Example: `  loandash serve
  loandash serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if cmd.Flags().Changed("addr") {
				cfg.Web.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			app := newServeApp(cfg, logger)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultWebAddr, "listen address")
	return cmd
}

// newServeApp assembles the dashboard application.
func newServeApp(cfg *config.Config, log zerolog.Logger) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Supply(log),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
		web.Module,
	)
}
