package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/google/uuid"
)

// GeneratedProject holds the domain objects produced from an import file.
// Events are ordered per document, creation first.
type GeneratedProject struct {
	Project   *domain.Project
	Documents []*domain.Document
	Events    []domain.StateEvent
}

// Convert transforms a validated ImportSchema into domain objects ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema is
// valid.
func Convert(schema *ImportSchema, now time.Time) (*GeneratedProject, error) {
	now = now.UTC()

	project := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   strings.ToUpper(strings.TrimSpace(schema.Project.ShortID)),
		Name:      strings.TrimSpace(schema.Project.Name),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	gen := &GeneratedProject{
		Project:   project,
		Documents: make([]*domain.Document, 0, len(schema.Documents)),
	}

	for _, di := range schema.Documents {
		createdAt, err := parseTime(di.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", di.Name, err)
		}

		state := domain.StateNew
		if di.State != "" {
			if state, err = domain.ParseDocumentState(di.State); err != nil {
				return nil, fmt.Errorf("document %q: %w", di.Name, err)
			}
		}

		doc := &domain.Document{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Name:      strings.TrimSpace(di.Name),
			State:     state,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		gen.Events = append(gen.Events, doc.CreationEvent())

		for _, tr := range di.Transitions {
			to, err := domain.ParseDocumentState(tr.To)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", di.Name, err)
			}
			at, err := parseTime(tr.At)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", di.Name, err)
			}
			ev, err := doc.MoveTo(to, at)
			if err != nil {
				return nil, err
			}
			gen.Events = append(gen.Events, ev)
		}

		gen.Documents = append(gen.Documents, doc)
	}

	return gen, nil
}
