package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/alexanderramin/docflow/internal/repository"
	"github.com/alexanderramin/docflow/internal/service"
	"github.com/alexanderramin/docflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	project *domain.Project
}

// newFixture seeds a project with five documents created ten days ago and
// two of them moved into annotation five days ago.
func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	documentRepo := repository.NewSQLiteDocumentRepo(database)

	projects := service.NewProjectService(projectRepo)
	documents := service.NewDocumentService(documentRepo, uow, "test")

	proj := &domain.Project{Name: "Server", ShortID: "SRV01"}
	require.NoError(t, projects.Create(ctx, proj))

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		d := &domain.Document{ProjectID: proj.ID, Name: fmt.Sprintf("doc-%d", i), CreatedAt: now.AddDate(0, 0, -10)}
		require.NoError(t, documents.Create(ctx, d))
		if i < 2 {
			at := now.AddDate(0, 0, -5)
			_, err := documents.Transition(ctx, d.ID, domain.StateAnnotationInProgress, &at)
			require.NoError(t, err)
		}
	}

	handler, err := New(Config{
		Projects:           projects,
		Progress:           service.NewProgressService(projectRepo, uow, 60),
		DefaultHorizonDays: 7,
	})
	require.NoError(t, err)
	return fixture{handler: handler, project: proj}
}

func get(t *testing.T, h http.Handler, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	envelope, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error envelope: %v", body)
	code, _ := envelope["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec, body := get(t, f.handler, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestProgress_ByShortID(t *testing.T) {
	f := newFixture(t)
	rec, body := get(t, f.handler, "/v1/projects/srv01/progress")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, f.project.ID, body["project_id"])
	assert.Equal(t, "conserving", body["strategy"])
	assert.EqualValues(t, 7, body["horizon_days"], "server default horizon")
	assert.EqualValues(t, 5, body["document_total"])

	history := body["history"].([]any)
	projection := body["projection"].([]any)
	series := body["series"].([]any)
	assert.NotEmpty(t, history)
	assert.NotEmpty(t, projection)
	assert.Len(t, series, len(history)+len(projection))

	first := projection[0].(map[string]any)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, first["day"])
	var total float64
	for _, n := range first["counts"].(map[string]any) {
		total += n.(float64)
	}
	assert.EqualValues(t, 5, total)
}

func TestProgress_QueryParameters(t *testing.T) {
	f := newFixture(t)
	url := fmt.Sprintf("/v1/projects/%s/progress?horizon=3&lookback=20&strategy=naive&densify=true", f.project.ID)
	rec, body := get(t, f.handler, url)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "naive", body["strategy"])
	assert.EqualValues(t, 3, body["horizon_days"])
	assert.EqualValues(t, 20, body["lookback_days"])
	// Densified: one entry per day over the ten days of history.
	assert.Len(t, body["history"].([]any), 11)
}

func TestProgress_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		url    string
		status int
		code   string
	}{
		{"unknown project", "/v1/projects/NOPE01/progress", http.StatusNotFound, "not_found"},
		{"horizon above max", "/v1/projects/SRV01/progress?horizon=61", http.StatusBadRequest, "INVALID_HORIZON"},
		{"negative lookback", "/v1/projects/SRV01/progress?lookback=-1", http.StatusBadRequest, "INVALID_LOOKBACK"},
		{"unknown strategy", "/v1/projects/SRV01/progress?strategy=spline", http.StatusBadRequest, "UNKNOWN_STRATEGY"},
		{"non-numeric horizon", "/v1/projects/SRV01/progress?horizon=soon", http.StatusBadRequest, "bad_request"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := get(t, f.handler, tc.url)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, errorCode(t, body))
		})
	}
}

func TestProgress_NegativeHorizonIsEmptyProjection(t *testing.T) {
	f := newFixture(t)
	rec, body := get(t, f.handler, "/v1/projects/SRV01/progress?horizon=-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, body["projection"])
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
