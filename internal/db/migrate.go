package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCreationEvents(db); err != nil {
		return fmt.Errorf("backfilling creation events: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		state      TEXT NOT NULL DEFAULT 'NEW',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(project_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_documents_project ON documents(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_state ON documents(project_id, state)`,

	// seq orders events that share a timestamp.
	`CREATE TABLE IF NOT EXISTS document_state_events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		from_state  TEXT,
		to_state    TEXT NOT NULL,
		at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_state_events_project_at ON document_state_events(project_id, at)`,

	// Record who triggered a transition.
	`ALTER TABLE document_state_events ADD COLUMN actor TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillCreationEvents inserts a creation event for every document
// that has no events at all, dated at the document's creation time, so that
// backward replay of the log accounts for documents loaded before the log
// existed. Idempotent: documents with any event are skipped.
func migrateBackfillCreationEvents(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT d.id, d.project_id, d.state, d.created_at
		FROM documents d
		WHERE NOT EXISTS (SELECT 1 FROM document_state_events e WHERE e.document_id = d.id)
		ORDER BY d.created_at, d.id`)
	if err != nil {
		return fmt.Errorf("listing documents without events: %w", err)
	}

	type orphan struct {
		id, projectID, state, createdAt string
	}
	var orphans []orphan
	for rows.Next() {
		var o orphan
		if err := rows.Scan(&o.id, &o.projectID, &o.state, &o.createdAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning document: %w", err)
		}
		orphans = append(orphans, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating documents: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, o := range orphans {
		if _, err := tx.ExecContext(ctx, `INSERT INTO document_state_events
			(id, project_id, document_id, from_state, to_state, at, actor)
			VALUES (?, ?, ?, NULL, ?, ?, 'migration')`,
			uuid.New().String(), o.projectID, o.id, o.state, o.createdAt); err != nil {
			return fmt.Errorf("inserting creation event for %s: %w", o.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing backfill: %w", err)
	}
	committed = true
	return nil
}
