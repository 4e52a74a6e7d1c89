// Package server exposes the progress read model over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/alexanderramin/docflow/internal/repository"
	"github.com/alexanderramin/docflow/internal/service"
)

type Config struct {
	Projects service.ProjectService
	Progress service.ProgressService
	Logger   *slog.Logger
	// Defaults applied when a request omits horizon or lookback.
	DefaultHorizonDays  int
	DefaultLookbackDays *int
}

type apiErrorBody struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"project \"NER99\": not found"`
}

// apiError renders as {"error":{"code":...,"message":...}}.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

func newAPIError(status int, code, message string) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{status: status, Body: apiErrorBody{Code: code, Message: message}}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// New builds the HTTP handler.
func New(cfg Config) (http.Handler, error) {
	if cfg.Projects == nil || cfg.Progress == nil {
		return nil, errors.New("server: project and progress services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		return newAPIError(status, "", msg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	hcfg := huma.DefaultConfig("docflow API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)

	registerHealth(api)
	registerProgress(api, cfg, logger)
	return router, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

type progressInput struct {
	Project  string `path:"project" doc:"Project ID, short ID or unique ID prefix"`
	Horizon  string `query:"horizon" doc:"Days to project past the last known day"`
	Lookback string `query:"lookback" doc:"Days of history used to fit the trend; empty uses all"`
	Strategy string `query:"strategy" doc:"Projection strategy: conserving (default) or naive"`
	Densify  bool   `query:"densify" doc:"Return one history entry per calendar day"`
}

type progressOutput struct {
	Body ProgressBody
}

func registerProgress(api huma.API, cfg Config, logger *slog.Logger) {
	huma.Register(api, huma.Operation{
		OperationID: "get-progress",
		Method:      http.MethodGet,
		Path:        "/v1/projects/{project}/progress",
		Summary:     "Document state history and projection",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *progressInput) (*progressOutput, error) {
		req, err := buildProgressRequest(input, cfg)
		if err != nil {
			return nil, err
		}

		project, err := cfg.Projects.Resolve(ctx, input.Project)
		if err != nil {
			return nil, handleError(ctx, logger, err)
		}
		req.ProjectID = project.ID

		resp, err := cfg.Progress.GetProgress(ctx, req)
		if err != nil {
			return nil, handleError(ctx, logger, err)
		}
		return &progressOutput{Body: toProgressBody(resp)}, nil
	})
}

func buildProgressRequest(input *progressInput, cfg Config) (contract.ProgressRequest, error) {
	req := contract.NewProgressRequest("")
	if cfg.DefaultHorizonDays != 0 {
		req.HorizonDays = cfg.DefaultHorizonDays
	}
	req.LookbackDays = cfg.DefaultLookbackDays
	req.Strategy = input.Strategy
	req.DensifyHistory = input.Densify

	if input.Horizon != "" {
		n, err := strconv.Atoi(input.Horizon)
		if err != nil {
			return req, newAPIError(http.StatusBadRequest, "", fmt.Sprintf("horizon must be an integer, got %q", input.Horizon))
		}
		req.HorizonDays = n
	}
	if input.Lookback != "" {
		n, err := strconv.Atoi(input.Lookback)
		if err != nil {
			return req, newAPIError(http.StatusBadRequest, "", fmt.Sprintf("lookback must be an integer, got %q", input.Lookback))
		}
		req.LookbackDays = &n
	}
	return req, nil
}

func handleError(ctx context.Context, logger *slog.Logger, err error) huma.StatusError {
	var pe *contract.ProgressError
	if errors.As(err, &pe) {
		return newAPIError(http.StatusBadRequest, string(pe.Code), pe.Message)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "", err.Error())
	}
	logger.ErrorContext(ctx, "request failed", "error", err, "request_id", middleware.GetReqID(ctx))
	return newAPIError(http.StatusInternalServerError, "", "internal error")
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
