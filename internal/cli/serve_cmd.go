package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/docflow/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progress API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Projects: app.Projects,
				Progress: app.Progress,
				Logger:   app.Logger,
			}
			if app.Config != nil {
				cfg.DefaultHorizonDays = app.Config.DefaultHorizonDays
				cfg.DefaultLookbackDays = app.Config.DefaultLookbackDays
				if addr == "" {
					addr = app.Config.HTTPAddr
				}
			}

			handler, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, addr, handler, app.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
