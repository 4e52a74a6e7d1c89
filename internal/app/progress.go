package app

import (
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

const DefaultHorizonDays = 30

type ProgressRequest struct {
	ProjectID   string
	HorizonDays int
	// LookbackDays bounds the regression window. Nil uses the whole history.
	LookbackDays   *int
	Strategy       string
	DensifyHistory bool
	Now            *time.Time
}

func NewProgressRequest(projectID string) ProgressRequest {
	return ProgressRequest{
		ProjectID:   projectID,
		HorizonDays: DefaultHorizonDays,
	}
}

type ProgressResponse struct {
	ProjectID     string            `json:"project_id" yaml:"project_id"`
	ProjectName   string            `json:"project_name" yaml:"project_name"`
	GeneratedAt   time.Time         `json:"generated_at" yaml:"generated_at"`
	Strategy      string            `json:"strategy" yaml:"strategy"`
	HorizonDays   int               `json:"horizon_days" yaml:"horizon_days"`
	LookbackDays  *int              `json:"lookback_days,omitempty" yaml:"lookback_days,omitempty"`
	DocumentTotal int               `json:"document_total" yaml:"document_total"`
	History       []domain.Snapshot `json:"history" yaml:"history"`
	Projection    []domain.Snapshot `json:"projection" yaml:"projection"`
	Series        []domain.Snapshot `json:"series" yaml:"series"`
	Warnings      []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type ProgressErrorCode string

const (
	ProgressErrInvalidHorizon  ProgressErrorCode = "INVALID_HORIZON"
	ProgressErrInvalidLookback ProgressErrorCode = "INVALID_LOOKBACK"
	ProgressErrUnknownStrategy ProgressErrorCode = "UNKNOWN_STRATEGY"
)

type ProgressError struct {
	Code    ProgressErrorCode
	Message string
}

func (e *ProgressError) Error() string {
	return string(e.Code) + ": " + e.Message
}
