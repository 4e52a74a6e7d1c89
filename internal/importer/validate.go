package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found. Times after now are
// rejected because replay ignores future events.
func ValidateImportSchema(schema *ImportSchema, now time.Time) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	names := make(map[string]bool)
	for i, d := range schema.Documents {
		errs = append(errs, validateDocument(fmt.Sprintf("documents[%d]", i), d, names, now)...)
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		candidate := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := candidate.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}

	return errs
}

func validateDocument(prefix string, d DocumentImport, names map[string]bool, now time.Time) []error {
	var errs []error

	name := strings.TrimSpace(d.Name)
	if name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	} else if names[name] {
		errs = append(errs, fmt.Errorf("%s.name: duplicate name %q", prefix, name))
	} else {
		names[name] = true
	}

	current := domain.StateNew
	if d.State != "" {
		s, err := domain.ParseDocumentState(d.State)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.state: %w", prefix, err))
		} else {
			current = s
		}
	}

	var last time.Time
	if d.CreatedAt == "" {
		errs = append(errs, fmt.Errorf("%s.created_at is required", prefix))
	} else if t, err := parseTime(d.CreatedAt); err != nil {
		errs = append(errs, fmt.Errorf("%s.created_at: %w", prefix, err))
	} else if t.After(now) {
		errs = append(errs, fmt.Errorf("%s.created_at %q is in the future", prefix, d.CreatedAt))
	} else {
		last = t
	}

	for j, tr := range d.Transitions {
		tp := fmt.Sprintf("%s.transitions[%d]", prefix, j)

		to, err := domain.ParseDocumentState(tr.To)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.to: %w", tp, err))
		} else if to == current {
			errs = append(errs, fmt.Errorf("%s.to: document is already in state %s", tp, to))
		} else {
			current = to
		}

		at, err := parseTime(tr.At)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s.at: %w", tp, err))
		case at.After(now):
			errs = append(errs, fmt.Errorf("%s.at %q is in the future", tp, tr.At))
		case !last.IsZero() && at.Before(last):
			errs = append(errs, fmt.Errorf("%s.at %q is before the previous change", tp, tr.At))
		default:
			last = at
		}
	}

	return errs
}

// parseTime accepts YYYY-MM-DD (midnight UTC) or RFC3339.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(domain.DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return t.UTC(), nil
}
