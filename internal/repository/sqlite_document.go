package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/domain"
)

// SQLiteDocumentRepo implements DocumentRepo using a SQLite database.
type SQLiteDocumentRepo struct {
	db db.DBTX
}

func NewSQLiteDocumentRepo(conn db.DBTX) *SQLiteDocumentRepo {
	return &SQLiteDocumentRepo{db: conn}
}

const documentColumns = `id, project_id, name, state, created_at, updated_at`

func (r *SQLiteDocumentRepo) Create(ctx context.Context, d *domain.Document) error {
	query := `INSERT INTO documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.Name,
		string(d.State),
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (r *SQLiteDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	return r.scanDocument(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteDocumentRepo) GetByName(ctx context.Context, projectID, name string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE project_id = ? AND name = ?`
	return r.scanDocument(r.db.QueryRowContext(ctx, query, projectID, name))
}

func (r *SQLiteDocumentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE project_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		d, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func (r *SQLiteDocumentRepo) UpdateState(ctx context.Context, d *domain.Document) error {
	query := `UPDATE documents SET state = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(d.State), formatTime(d.UpdatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("updating document state: %w", err)
	}
	return requireAffected(res, "document")
}

// CountByState returns the current number of documents per state.
func (r *SQLiteDocumentRepo) CountByState(ctx context.Context, projectID string) (domain.StateCounts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT state, COUNT(*) FROM documents WHERE project_id = ? GROUP BY state`, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting documents by state: %w", err)
	}
	defer rows.Close()

	counts := domain.StateCounts{}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scanning state count: %w", err)
		}
		counts[domain.DocumentState(state)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteDocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return requireAffected(res, "document")
}

func (r *SQLiteDocumentRepo) scanDocument(row rowScanner) (*domain.Document, error) {
	var d domain.Document
	var stateStr, createdAtStr, updatedAtStr string

	err := row.Scan(&d.ID, &d.ProjectID, &d.Name, &stateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	d.State = domain.DocumentState(stateStr)

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &d, nil
}
