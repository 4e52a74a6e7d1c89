package service

import (
	"context"
	"time"

	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/alexanderramin/docflow/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a short ID, a full ID or a unique ID prefix.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type DocumentService interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	// Resolve finds a document by ID or by name within the project.
	Resolve(ctx context.Context, projectID, ref string) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Document, error)
	// Transition moves the document to another state and records the event.
	// A nil at means now.
	Transition(ctx context.Context, id string, to domain.DocumentState, at *time.Time) (*domain.Document, error)
}

type ProgressService interface {
	GetProgress(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressResponse, error)
}

// ImportResult summarizes a completed project import.
type ImportResult struct {
	Project       *domain.Project
	DocumentCount int
	EventCount    int
}

type ImportService interface {
	// ImportProject loads a JSON or YAML import file and persists it.
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
