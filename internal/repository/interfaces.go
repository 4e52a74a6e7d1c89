package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

// ErrNotFound is wrapped by every Get method when no row matches.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type DocumentRepo interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetByName(ctx context.Context, projectID, name string) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Document, error)
	UpdateState(ctx context.Context, d *domain.Document) error
	CountByState(ctx context.Context, projectID string) (domain.StateCounts, error)
	Delete(ctx context.Context, id string) error
}

type StateEventRepo interface {
	Append(ctx context.Context, e *domain.StateEvent) error
	// ListByProject returns events oldest first, up to and including until.
	ListByProject(ctx context.Context, projectID string, until time.Time) ([]domain.StateEvent, error)
}
