package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Use case names reported to a UseCaseObserver.
const (
	// UseCaseCreateDocument fields: project_id, document.
	UseCaseCreateDocument = "create-document"
	// UseCaseTransitionDocument fields: document_id, to, and from once the
	// document has been loaded.
	UseCaseTransitionDocument = "transition-document"
	// UseCaseGetProgress fields: project_id, horizon, strategy, then events,
	// history_len and projection_len as the replay and forecast complete.
	UseCaseGetProgress = "get-progress"
	// UseCaseImportProject fields: short_id, documents, and project_id once
	// the schema has been converted.
	UseCaseImportProject = "import-project"
)

// UseCaseEvent is emitted once per document write, progress query or project
// import, after the call returns. Fields holds whatever the use case had
// gathered by then, so a failed call may carry fewer keys.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives one UseCaseEvent per service call. Observers run
// outside the unit of work, so a rolled back write still reports.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes use-case events as slog text records to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver sends use-case events to an existing logger, so the
// CLI, the HTTP server and the services share one handler and level.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

// ObserveUseCase logs a "service_use_case" record at info level, or at error
// level with an error attribute when the call failed.
func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
