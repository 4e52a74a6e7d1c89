package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/docflow/internal/config"
	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/alexanderramin/docflow/internal/repository"
	"github.com/alexanderramin/docflow/internal/service"
	"github.com/alexanderramin/docflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projRepo := repository.NewSQLiteProjectRepo(database)
	docRepo := repository.NewSQLiteDocumentRepo(database)

	return &App{
		Projects:  service.NewProjectService(projRepo),
		Documents: service.NewDocumentService(docRepo, uow, "test"),
		Progress:  service.NewProgressService(projRepo, uow, 365),
		Import:    service.NewImportService(uow, "test"),
		Logger:    slog.New(slog.DiscardHandler),
		Viper:     config.New(),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// seedRamp creates project RAMP01 with four documents added ten days ago,
// two of which moved to annotation five days ago.
func seedRamp(t *testing.T, app *App) {
	t.Helper()
	created := time.Now().UTC().AddDate(0, 0, -10).Format(domain.DayLayout)
	moved := time.Now().UTC().AddDate(0, 0, -5).Format(domain.DayLayout)

	_, err := executeCmd(t, app, "project", "add", "--id", "RAMP01", "--name", "Ramp")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "doc", "add", "a", "b", "c", "d", "-p", "RAMP01", "--at", created)
	require.NoError(t, err)
	for _, name := range []string{"a", "b"} {
		_, err = executeCmd(t, app, "doc", "move", name, "annotation-in-progress", "-p", "RAMP01", "--at", moved)
		require.NoError(t, err)
	}
}

// --- project ---

func TestProjectAddAndList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--id", "ner01", "--name", "NER corpus")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project NER corpus [NER01]")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NER01")
	assert.Contains(t, out, "NER corpus")
}

func TestProjectAdd_InvalidShortID(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add", "--id", "x1", "--name", "Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short ID")
}

func TestProjectAdd_NonInteractiveRequiresFlags(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add")
	require.Error(t, err)
}

func TestProjectArchiveAndRemove(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add", "--id", "DEL01", "--name", "Doomed")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "project", "rm", "DEL01")
	require.Error(t, err, "active projects need --force")

	out, err := executeCmd(t, app, "project", "archive", "DEL01")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived project DEL01")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "DEL01")

	out, err = executeCmd(t, app, "project", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "DEL01")

	out, err = executeCmd(t, app, "project", "rm", "DEL01", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project DEL01")

	_, err = executeCmd(t, app, "project", "archive", "DEL01")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectImport(t *testing.T) {
	app := testApp(t)
	created := time.Now().UTC().AddDate(0, 0, -3).Format(domain.DayLayout)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"project": {"short_id": "SEED01", "name": "Seeded"},
		"documents": [
			{"name": "x", "created_at": "`+created+`",
			 "transitions": [{"to": "annotation-in-progress", "at": "`+created+`T12:00:00Z"}]},
			{"name": "y", "created_at": "`+created+`"}
		]
	}`), 0o644))

	out, err := executeCmd(t, app, "project", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported project Seeded [SEED01]: 2 documents, 3 events")

	out, err = executeCmd(t, app, "doc", "list", "-p", "SEED01")
	require.NoError(t, err)
	assert.Contains(t, out, "annotation in progress 1")
}

// --- doc ---

func TestDocAddListMove(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	out, err := executeCmd(t, app, "doc", "list", "-p", "RAMP01")
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "annotation in progress 2")
	assert.Contains(t, out, "new 2")

	out, err = executeCmd(t, app, "doc", "move", "c", "ANNOTATION_FINISHED", "-p", "ramp01")
	require.NoError(t, err)
	assert.Contains(t, out, "c:")
	assert.Contains(t, out, "annotation finished")
}

func TestDocAdd_RequiresProject(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "doc", "add", "a")
	require.Error(t, err)
}

func TestDocMove_Errors(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown state", []string{"doc", "move", "c", "reviewed", "-p", "RAMP01"}, "unknown document state"},
		{"same state", []string{"doc", "move", "a", "annotation in progress", "-p", "RAMP01"}, "already in state"},
		{"missing state", []string{"doc", "move", "c", "-p", "RAMP01"}, "target state is required"},
		{"backdated", []string{"doc", "move", "a", "annotation-finished", "-p", "RAMP01", "--at", "2000-01-01"}, "before the document's last change"},
		{"bad time", []string{"doc", "move", "c", "annotation-finished", "-p", "RAMP01", "--at", "yesterday"}, "invalid time"},
		{"future time", []string{"doc", "move", "c", "annotation-finished", "-p", "RAMP01", "--at", "2999-01-01"}, "in the future"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := executeCmd(t, app, "doc", "move", "missing", "annotation-finished", "-p", "RAMP01")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// --- progress ---

func TestProgress_JSON(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	out, err := executeCmd(t, app, "progress", "RAMP01", "--horizon", "5", "-o", "json")
	require.NoError(t, err)

	var resp contract.ProgressResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Ramp", resp.ProjectName)
	assert.Equal(t, "conserving", resp.Strategy)
	assert.Equal(t, 5, resp.HorizonDays)
	assert.Equal(t, 4, resp.DocumentTotal)
	require.GreaterOrEqual(t, len(resp.History), 2)

	last := resp.History[len(resp.History)-1]
	assert.Equal(t, 2, last.Counts.Get(domain.StateNew))
	assert.Equal(t, 2, last.Counts.Get(domain.StateAnnotationInProgress))
	for _, snap := range resp.Projection {
		assert.Equal(t, 4, snap.Counts.Total(), "projection on %s", snap.Day.Format(domain.DayLayout))
	}
}

func TestProgress_DensifyAndLookback(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	out, err := executeCmd(t, app, "progress", "RAMP01", "--densify", "--lookback", "3", "-o", "json")
	require.NoError(t, err)

	var resp contract.ProgressResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.LookbackDays)
	assert.Equal(t, 3, *resp.LookbackDays)
	assert.Len(t, resp.History, 11)
	assert.Equal(t, contract.DefaultHorizonDays, resp.HorizonDays)
}

func TestProgress_YAML(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	out, err := executeCmd(t, app, "progress", "RAMP01", "--strategy", "naive", "-o", "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "naive", decoded["strategy"])
	assert.Equal(t, 4, decoded["document_total"])
	assert.True(t, strings.Contains(out, "day: \""+time.Now().UTC().Format(domain.DayLayout)+"\"") ||
		strings.Contains(out, "day: "+time.Now().UTC().Format(domain.DayLayout)))
}

func TestProgress_Table(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	out, err := executeCmd(t, app, "progress", "RAMP01", "--horizon", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "RAMP")
	assert.Contains(t, out, "AIP")
	assert.Contains(t, out, time.Now().UTC().Format(domain.DayLayout))
}

func TestProgress_Errors(t *testing.T) {
	app := testApp(t)
	seedRamp(t, app)

	_, err := executeCmd(t, app, "progress", "RAMP01", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, err = executeCmd(t, app, "progress", "RAMP01", "--strategy", "magic")
	var perr *contract.ProgressError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, contract.ProgressErrUnknownStrategy, perr.Code)

	_, err = executeCmd(t, app, "progress", "RAMP01", "--horizon", "1000")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, contract.ProgressErrInvalidHorizon, perr.Code)

	_, err = executeCmd(t, app, "progress", "NOPE01")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// --- config ---

func TestRoot_InvalidLogLevel(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "--log-level", "loud", "project", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestRoot_BootstrapReceivesConfig(t *testing.T) {
	app := testApp(t)
	var got *config.Config
	app.Bootstrap = func(cfg *config.Config) error {
		got = cfg
		return nil
	}

	_, err := executeCmd(t, app, "--db", "/tmp/docflow-test.db", "--actor", "alice", "project", "list")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/tmp/docflow-test.db", got.DBPath)
	assert.Equal(t, "alice", got.Actor)
}
