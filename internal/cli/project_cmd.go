package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/docflow/internal/cli/formatter"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var shortID, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if shortID == "" && name == "" && app.interactive() {
				if err := projectForm(&shortID, &name).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			p := &domain.Project{ShortID: shortID, Name: name}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. NER01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects, err := app.Projects.List(ctx, all)
			if err != nil {
				return err
			}

			counts := make(map[string]domain.StateCounts, len(projects))
			for _, p := range projects {
				c, err := documentCounts(ctx, app, p.ID)
				if err != nil {
					return err
				}
				counts[p.ID] = c
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, counts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive PROJECT",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "rm PROJECT",
		Short: "Delete a project with its documents and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Delete %s and its whole history?", p.DisplayID())
				if err := confirmForm(title, &confirmed).Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Projects.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the project is not archived")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// documentCounts tallies a project's documents by current state.
func documentCounts(ctx context.Context, app *App, projectID string) (domain.StateCounts, error) {
	docs, err := app.Documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	counts := domain.StateCounts{}
	for _, d := range docs {
		counts[d.State]++
	}
	return counts, nil
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project with documents and history from a JSON or YAML file",
		Long: `Create a project from an import file. Each document lists the time it was
created and the transitions it went through, so an existing project's
history can be seeded in one step:

  project:
    short_id: NER01
    name: Clinical NER
  documents:
    - name: note-001.txt
      created_at: "2025-03-01"
      transitions:
        - to: annotation-in-progress
          at: "2025-03-04T10:00:00Z"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d documents, %d events\n",
				result.Project.Name, result.Project.ShortID, result.DocumentCount, result.EventCount)
			return nil
		},
	}
}
