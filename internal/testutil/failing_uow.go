package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/db"
)

// FailingUoW runs write transactions against DB but makes the FailOnExec-th
// ExecContext (counting from 1) return Err, so tests can break a plan save
// halfway and check that nothing was committed. Reads are never counted.
type FailingUoW struct {
	DB         *sql.DB
	FailOnExec int
	Err        error

	// Execs holds the first word of every statement attempted, in order,
	// including the one that failed.
	Execs []string
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (u *FailingUoW) WithinReadTx(ctx context.Context, fn db.TxFunc) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinReadTx(ctx, fn)
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	verb, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	f.uow.Execs = append(f.uow.Execs, strings.ToUpper(verb))
	if len(f.uow.Execs) == f.uow.FailOnExec {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
