package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/docflow/internal/cli/formatter"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newDocCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc",
		Aliases: []string{"document"},
		Short:   "Manage documents and their workflow state",
	}

	cmd.AddCommand(
		newDocAddCmd(app),
		newDocListCmd(app),
		newDocMoveCmd(app),
	)

	return cmd
}

func newDocAddCmd(app *App) *cobra.Command {
	var projectRef, stateStr, atStr string

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add documents to a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}

			state := domain.StateNew
			if stateStr != "" {
				if state, err = domain.ParseDocumentState(stateStr); err != nil {
					return err
				}
			}
			at, err := parseAt(atStr)
			if err != nil {
				return err
			}

			for _, name := range args {
				d := &domain.Document{ProjectID: p.ID, Name: name, State: state}
				if at != nil {
					d.CreatedAt = *at
				}
				if err := app.Documents.Create(ctx, d); err != nil {
					return fmt.Errorf("adding %q: %w", name, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d document(s) to %s as %s\n", len(args), p.DisplayID(), state.Label())
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or ID")
	cmd.Flags().StringVar(&stateStr, "state", "", "Initial state (default NEW)")
	cmd.Flags().StringVar(&atStr, "at", "", "Creation time, YYYY-MM-DD or RFC3339 (default now)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDocListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}
			docs, err := app.Documents.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDocumentList(p, docs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDocMoveCmd(app *App) *cobra.Command {
	var projectRef, atStr string

	cmd := &cobra.Command{
		Use:   "move DOCUMENT [STATE]",
		Short: "Move a document to another workflow state",
		Long: `Move a document to another workflow state and record the transition.

STATE accepts the canonical names case-insensitively, with dashes or spaces
in place of underscores (e.g. annotation-finished). When STATE is omitted on
an interactive terminal a picker is shown.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}
			d, err := app.Documents.Resolve(ctx, p.ID, args[0])
			if err != nil {
				return err
			}

			var to domain.DocumentState
			switch {
			case len(args) == 2:
				if to, err = domain.ParseDocumentState(args[1]); err != nil {
					return err
				}
			case app.interactive():
				if err := stateSelectForm(d.State, &to).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			default:
				return fmt.Errorf("target state is required")
			}

			at, err := parseAt(atStr)
			if err != nil {
				return err
			}

			from := d.State
			moved, err := app.Documents.Transition(ctx, d.ID, to, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s → %s\n",
				moved.Name, formatter.StateBadge(from), formatter.StateBadge(moved.State))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project short ID or ID")
	cmd.Flags().StringVar(&atStr, "at", "", "Transition time, YYYY-MM-DD or RFC3339 (default now)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
