package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/docflow/internal/db"
)

// FailingWriteUoW runs the callback in a real transaction but makes the
// FailOn-th write (counting from 1) return Err. Reads are not counted.
// Used to check that multi-row writes commit or roll back together.
type FailingWriteUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingWriter{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingWriter struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (w *failingWriter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if w.writes.Add(1) == w.failOn {
		return nil, w.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
