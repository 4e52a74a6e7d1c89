package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/alexanderramin/docflow/internal/repository"
	"github.com/google/uuid"
)

type documentService struct {
	documents repository.DocumentRepo
	uow       db.UnitOfWork
	actor     string
	observer  UseCaseObserver
}

// NewDocumentService returns a DocumentService that stamps every recorded
// event with actor.
func NewDocumentService(documents repository.DocumentRepo, uow db.UnitOfWork, actor string, observers ...UseCaseObserver) DocumentService {
	return &documentService{
		documents: documents,
		uow:       uow,
		actor:     actor,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *documentService) Create(ctx context.Context, d *domain.Document) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      UseCaseCreateDocument,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"project_id": d.ProjectID, "document": d.Name},
		})
	}()

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("document name is required")
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.State == "" {
		d.State = domain.StateNew
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = startedAt
	}
	d.CreatedAt = d.CreatedAt.UTC()
	if d.CreatedAt.After(startedAt) {
		return fmt.Errorf("creation time %s is in the future", d.CreatedAt.Format(time.RFC3339))
	}
	d.UpdatedAt = d.CreatedAt

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteDocumentRepo(tx).Create(ctx, d); err != nil {
			return err
		}
		ev := d.CreationEvent()
		ev.Actor = s.actor
		return repository.NewSQLiteStateEventRepo(tx).Append(ctx, &ev)
	})
}

func (s *documentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

func (s *documentService) Resolve(ctx context.Context, projectID, ref string) (*domain.Document, error) {
	d, err := s.documents.GetByID(ctx, ref)
	if err == nil {
		if d.ProjectID != projectID {
			return nil, fmt.Errorf("document %q: %w", ref, repository.ErrNotFound)
		}
		return d, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.documents.GetByName(ctx, projectID, ref)
}

func (s *documentService) ListByProject(ctx context.Context, projectID string) ([]*domain.Document, error) {
	return s.documents.ListByProject(ctx, projectID)
}

func (s *documentService) Transition(ctx context.Context, id string, to domain.DocumentState, at *time.Time) (doc *domain.Document, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"document_id": id, "to": string(to)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      UseCaseTransitionDocument,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	when := startedAt
	if at != nil {
		when = at.UTC()
	}
	// Replay starts from the current counts, so an event it cannot see yet
	// would skew every earlier day.
	if when.After(startedAt) {
		return nil, fmt.Errorf("transition time %s is in the future", when.Format(time.RFC3339))
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDocs := repository.NewSQLiteDocumentRepo(tx)

		d, err := txDocs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// The audit log must stay ordered per document for replay.
		if when.Before(d.UpdatedAt) {
			return fmt.Errorf("transition time %s is before the document's last change (%s)",
				when.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339))
		}
		fields["from"] = string(d.State)

		ev, err := d.MoveTo(to, when)
		if err != nil {
			return err
		}
		ev.Actor = s.actor
		if err := txDocs.UpdateState(ctx, d); err != nil {
			return err
		}
		if err := repository.NewSQLiteStateEventRepo(tx).Append(ctx, &ev); err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
