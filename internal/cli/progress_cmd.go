package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/docflow/internal/cli/formatter"
	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newProgressCmd(app *App) *cobra.Command {
	var (
		horizon, lookback int
		strategy, output  string
		densify           bool
	)

	cmd := &cobra.Command{
		Use:   "progress PROJECT",
		Short: "Show a project's state history and projected progress",
		Long: `Show how a project's documents moved through the workflow and where the
current trend leads.

History is replayed from the transition log. The projection fits a linear
trend per state over the lookback window and extends it for the horizon.
The conserving strategy keeps the document total fixed; the naive strategy
rounds each state independently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}

			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			req := contract.NewProgressRequest(p.ID)
			req.Strategy = strategy
			req.DensifyHistory = densify
			if app.Config != nil {
				req.HorizonDays = app.Config.DefaultHorizonDays
				req.LookbackDays = app.Config.DefaultLookbackDays
			}
			if cmd.Flags().Changed("horizon") {
				req.HorizonDays = horizon
			}
			if cmd.Flags().Changed("lookback") {
				req.LookbackDays = &lookback
			}

			resp, err := app.Progress.GetProgress(ctx, req)
			if err != nil {
				return err
			}
			return writeProgress(cmd.OutOrStdout(), output, resp)
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", contract.DefaultHorizonDays, "Days to project past today")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "Days of history used to fit the trend (default all)")
	cmd.Flags().StringVar(&strategy, "strategy", "conserving", "Projection strategy: conserving or naive")
	cmd.Flags().BoolVar(&densify, "densify", false, "Show one history row per day")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")

	return cmd
}

func writeProgress(w io.Writer, output string, resp *contract.ProgressResponse) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(w, formatter.FormatProgress(resp))
		return err
	}
}
