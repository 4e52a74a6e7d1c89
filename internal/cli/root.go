package cli

import (
	"log/slog"

	"github.com/alexanderramin/docflow/internal/config"
	"github.com/alexanderramin/docflow/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App holds references to all service interfaces used by CLI commands.
// Services may be set up front (tests) or by Bootstrap once the
// configuration is known.
type App struct {
	Projects  service.ProjectService
	Documents service.DocumentService
	Progress  service.ProgressService
	Import    service.ImportService

	Logger *slog.Logger
	Config *config.Config
	Viper  *viper.Viper

	// Bootstrap wires services from the resolved configuration. It runs
	// before every subcommand and may be nil when services are preset.
	Bootstrap func(cfg *config.Config) error

	// IsInteractive reports whether stdin is a terminal. Forms are only
	// shown when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "docflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Viper == nil {
		app.Viper = config.New()
	}

	root := &cobra.Command{
		Use:           "docflow",
		Short:         "Track document annotation workflows and project their progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(app.Viper, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(app.Viper)
			if err != nil {
				return err
			}
			app.Config = cfg
			if app.Logger == nil {
				app.Logger = cfg.NewLogger(cmd.ErrOrStderr())
			}
			if app.Bootstrap != nil {
				return app.Bootstrap(cfg)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("db", "", "SQLite database path (default ~/.docflow/docflow.db)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Bool("log-usecases", false, "Log every service use case")
	flags.String("actor", "", "Name recorded on state transitions (default $USER)")

	root.AddCommand(
		newProjectCmd(app),
		newDocCmd(app),
		newProgressCmd(app),
		newServeCmd(app),
	)

	return root
}
