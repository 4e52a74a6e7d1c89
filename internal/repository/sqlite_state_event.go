package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/docflow/internal/db"
	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/google/uuid"
)

// SQLiteStateEventRepo implements StateEventRepo on the
// document_state_events audit table. Events are append-only.
type SQLiteStateEventRepo struct {
	db db.DBTX
}

func NewSQLiteStateEventRepo(conn db.DBTX) *SQLiteStateEventRepo {
	return &SQLiteStateEventRepo{db: conn}
}

func (r *SQLiteStateEventRepo) Append(ctx context.Context, e *domain.StateEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `INSERT INTO document_state_events (id, project_id, document_id, from_state, to_state, at, actor)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.DocumentID,
		nullableString(e.From),
		string(e.To),
		formatTime(e.At),
		e.Actor,
	)
	if err != nil {
		return fmt.Errorf("appending state event: %w", err)
	}
	return nil
}

func (r *SQLiteStateEventRepo) ListByProject(ctx context.Context, projectID string, until time.Time) ([]domain.StateEvent, error) {
	query := `SELECT id, project_id, document_id, from_state, to_state, at, actor
		FROM document_state_events
		WHERE project_id = ? AND at <= ?
		ORDER BY at, seq`
	rows, err := r.db.QueryContext(ctx, query, projectID, formatTime(until))
	if err != nil {
		return nil, fmt.Errorf("listing state events: %w", err)
	}
	defer rows.Close()

	var events []domain.StateEvent
	for rows.Next() {
		var e domain.StateEvent
		var from sql.NullString
		var to, at string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.DocumentID, &from, &to, &at, &e.Actor); err != nil {
			return nil, fmt.Errorf("scanning state event: %w", err)
		}
		if from.Valid {
			s := domain.DocumentState(from.String)
			e.From = &s
		}
		e.To = domain.DocumentState(to)
		e.At, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("parsing event time: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state events: %w", err)
	}
	return events, nil
}
