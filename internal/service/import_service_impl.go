package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/importer"
	"github.com/alexanderramin/docflow/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	actor    string
	observer UseCaseObserver
	now      func() time.Time
}

// NewImportService returns an ImportService that writes the project, its
// documents and their events in a single unit of work.
func NewImportService(uow db.UnitOfWork, actor string, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		actor:    actor,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProjectFromSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"short_id": schema.Project.ShortID, "documents": len(schema.Documents)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      UseCaseImportProject,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema, startedAt); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, startedAt)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		docs := repository.NewSQLiteDocumentRepo(tx)
		for _, d := range generated.Documents {
			if err := docs.Create(ctx, d); err != nil {
				return fmt.Errorf("creating document %q: %w", d.Name, err)
			}
		}

		events := repository.NewSQLiteStateEventRepo(tx)
		for i := range generated.Events {
			ev := &generated.Events[i]
			ev.Actor = s.actor
			if err := events.Append(ctx, ev); err != nil {
				return fmt.Errorf("recording event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["project_id"] = generated.Project.ID
	return &ImportResult{
		Project:       generated.Project,
		DocumentCount: len(generated.Documents),
		EventCount:    len(generated.Events),
	}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%s", b.String())
}
