package contract

import "github.com/alexanderramin/docflow/internal/app"

type ProgressRequest = app.ProgressRequest

func NewProgressRequest(projectID string) ProgressRequest {
	return app.NewProgressRequest(projectID)
}

type ProgressResponse = app.ProgressResponse

type ProgressErrorCode = app.ProgressErrorCode

const (
	ProgressErrInvalidHorizon  ProgressErrorCode = app.ProgressErrInvalidHorizon
	ProgressErrInvalidLookback ProgressErrorCode = app.ProgressErrInvalidLookback
	ProgressErrUnknownStrategy ProgressErrorCode = app.ProgressErrUnknownStrategy
)

type ProgressError = app.ProgressError

const DefaultHorizonDays = app.DefaultHorizonDays
