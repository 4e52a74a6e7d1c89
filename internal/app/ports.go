package app

import (
	"context"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

type ProgressUseCase interface {
	GetProgress(ctx context.Context, req ProgressRequest) (*ProgressResponse, error)
}

type TransitionUseCase interface {
	Transition(ctx context.Context, documentID string, to domain.DocumentState, at *time.Time) (*domain.Document, error)
}

type ResolveProjectUseCase interface {
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
}
