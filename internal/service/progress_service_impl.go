package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/docflow/internal/app"
	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/alexanderramin/docflow/internal/forecast"
	"github.com/alexanderramin/docflow/internal/repository"
)

type progressService struct {
	projects       repository.ProjectRepo
	uow            db.UnitOfWork
	maxHorizonDays int
	observer       UseCaseObserver
}

// NewProgressService builds the progress read model. Requests with a horizon
// beyond maxHorizonDays are rejected; zero disables the limit.
func NewProgressService(
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	maxHorizonDays int,
	observers ...UseCaseObserver,
) ProgressService {
	return &progressService{
		projects:       projects,
		uow:            uow,
		maxHorizonDays: maxHorizonDays,
		observer:       useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) GetProgress(ctx context.Context, req app.ProgressRequest) (resp *app.ProgressResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"project_id": req.ProjectID,
		"horizon":    req.HorizonDays,
		"strategy":   req.Strategy,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      UseCaseGetProgress,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	strategy, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	projector, err := forecast.NewProjector(strategy)
	if err != nil {
		return nil, err
	}

	now := startedAt
	if req.Now != nil {
		now = req.Now.UTC()
	}

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	// Counts and events are read in one transaction so the replay starts
	// from the state the log leads to.
	var counts domain.StateCounts
	var events []domain.StateEvent
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		counts, err = repository.NewSQLiteDocumentRepo(tx).CountByState(ctx, project.ID)
		if err != nil {
			return err
		}
		events, err = repository.NewSQLiteStateEventRepo(tx).ListByProject(ctx, project.ID, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading project history: %w", err)
	}

	history, warnings := replayHistory(counts, events, now)
	fields["events"] = len(events)
	fields["history_len"] = len(history)

	result := forecast.Forecast(forecast.Request{
		History:        history,
		HorizonDays:    req.HorizonDays,
		LookbackDays:   req.LookbackDays,
		Projector:      projector,
		DensifyHistory: req.DensifyHistory,
	})
	fields["projection_len"] = len(result.Projection)

	if len(history) < 2 && req.HorizonDays > 0 {
		warnings = append(warnings, "history has a single snapshot; at least two are needed to project a trend")
	}

	return &app.ProgressResponse{
		ProjectID:     project.ID,
		ProjectName:   project.Name,
		GeneratedAt:   now,
		Strategy:      string(strategy),
		HorizonDays:   req.HorizonDays,
		LookbackDays:  req.LookbackDays,
		DocumentTotal: counts.Total(),
		History:       result.History,
		Projection:    result.Projection,
		Series:        result.Series(),
		Warnings:      warnings,
	}, nil
}

func (s *progressService) validate(req app.ProgressRequest) (forecast.Strategy, error) {
	if s.maxHorizonDays > 0 && req.HorizonDays > s.maxHorizonDays {
		return "", &app.ProgressError{
			Code:    app.ProgressErrInvalidHorizon,
			Message: fmt.Sprintf("horizon of %d days exceeds the maximum of %d", req.HorizonDays, s.maxHorizonDays),
		}
	}
	if req.LookbackDays != nil && *req.LookbackDays < 0 {
		return "", &app.ProgressError{
			Code:    app.ProgressErrInvalidLookback,
			Message: fmt.Sprintf("lookback must not be negative, got %d", *req.LookbackDays),
		}
	}
	strategy, err := forecast.ParseStrategy(req.Strategy)
	if err != nil {
		return "", &app.ProgressError{Code: app.ProgressErrUnknownStrategy, Message: err.Error()}
	}
	return strategy, nil
}
