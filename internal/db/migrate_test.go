package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "documents", "document_state_events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_documents_project",
		"idx_documents_state",
		"idx_state_events_project_at",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_ActorColumnAdded(t *testing.T) {
	db := openTestDB(t)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('document_state_events') WHERE name = 'actor'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_BackfillsCreationEventsForLegacyDocuments(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'NER01', 'NER', '2025-03-01T00:00:00Z', '2025-03-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO documents (id, project_id, name, state, created_at, updated_at) VALUES
		('d1', 'p1', 'a.txt', 'NEW', '2025-03-02T10:00:00Z', '2025-03-02T10:00:00Z'),
		('d2', 'p1', 'b.txt', 'CURATION_FINISHED', '2025-03-03T10:00:00Z', '2025-03-03T10:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// Second run must not duplicate the backfill.
	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT document_id, from_state, to_state, at, actor
		FROM document_state_events ORDER BY seq`)
	require.NoError(t, err)
	defer rows.Close()

	type event struct {
		docID, to, at, actor string
		from                 sql.NullString
	}
	var events []event
	for rows.Next() {
		var e event
		require.NoError(t, rows.Scan(&e.docID, &e.from, &e.to, &e.at, &e.actor))
		events = append(events, e)
	}
	require.NoError(t, rows.Err())

	require.Len(t, events, 2)
	assert.Equal(t, "d1", events[0].docID)
	assert.False(t, events[0].from.Valid)
	assert.Equal(t, "NEW", events[0].to)
	assert.Equal(t, "2025-03-02T10:00:00Z", events[0].at)
	assert.Equal(t, "migration", events[0].actor)
	assert.Equal(t, "CURATION_FINISHED", events[1].to)
}
