package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/cli/formatter"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// docflowHuhTheme returns a huh theme matching the formatter palette.
func docflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectForm collects a short ID and name for a new project.
func projectForm(shortID, name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Description("3-6 letters followed by 2-4 digits").
				Placeholder("NER01").
				Value(shortID).
				Validate(validateShortID),
			huh.NewInput().
				Title("Name").
				Placeholder("Clinical NER corpus").
				Value(name).
				Validate(validateRequired),
		),
	).WithTheme(docflowHuhTheme()).WithShowHelp(false)
}

// stateSelectForm offers every workflow state except current.
func stateSelectForm(current domain.DocumentState, result *domain.DocumentState) *huh.Form {
	options := make([]huh.Option[domain.DocumentState], 0, len(domain.ExpendabilityOrder))
	for _, s := range domain.ExpendabilityOrder {
		if s == current {
			continue
		}
		options = append(options, huh.NewOption(s.Label(), s))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.DocumentState]().
				Title("Move to").
				Options(options...).
				Value(result),
		),
	).WithTheme(docflowHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(docflowHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateShortID(s string) error {
	p := domain.Project{ShortID: strings.ToUpper(strings.TrimSpace(s))}
	return p.ValidateShortID()
}

// parseAt accepts YYYY-MM-DD (midnight UTC) or RFC3339. Empty means now.
func parseAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(domain.DayLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: use YYYY-MM-DD or RFC3339", s)
	}
	t = t.UTC()
	return &t, nil
}
