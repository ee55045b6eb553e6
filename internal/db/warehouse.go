package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// lastLoadedPartQuery derives the loaded-part marker from the file names
// recorded in staging.clients. It yields NULL when the table is empty.
const lastLoadedPartQuery = `SELECT MAX((regexp_match(file_name, 'clients_(\d+)\.json'))[1]::INTEGER) FROM staging.clients`

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// TxBeginner is the subset of *pgxpool.Pool the warehouse needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ScriptSource resolves SQL script names to SQL text.
type ScriptSource interface {
	Script(name string) (string, error)
}

var _ loanstage.Warehouse = (*PgWarehouse)(nil)

// PgWarehouse runs named scripts and bulk loads against PostgreSQL.
// Every operation runs in its own transaction and rolls back on failure.
type PgWarehouse struct {
	db      TxBeginner
	scripts ScriptSource
	logger  loanstage.Logger
}

// NewWarehouse creates a PgWarehouse.
func NewWarehouse(db TxBeginner, scripts ScriptSource, logger loanstage.Logger) *PgWarehouse {
	if db == nil {
		panic("db cannot be nil")
	}
	if scripts == nil {
		panic("scripts cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PgWarehouse{db: db, scripts: scripts, logger: logger}
}

// ExecuteScript runs the named script in its own transaction.
func (w *PgWarehouse) ExecuteScript(ctx context.Context, name string) error {
	sql, err := w.scripts.Script(name)
	if err != nil {
		return err
	}
	return w.inTx(ctx, name, func(tx pgx.Tx) error {
		w.logger.Verbose("Executing %s", name)
		if _, err := tx.Exec(ctx, sql); err != nil {
			return scriptError(name, err)
		}
		return nil
	})
}

// IncrementalLoad creates the temp table, copies batch into it and upserts
// into staging in one transaction.
func (w *PgWarehouse) IncrementalLoad(ctx context.Context, batch loanstage.RecordBatch, createTempScript, upsertScript string) error {
	createSQL, err := w.scripts.Script(createTempScript)
	if err != nil {
		return err
	}
	upsertSQL, err := w.scripts.Script(upsertScript)
	if err != nil {
		return err
	}

	return w.inTx(ctx, upsertScript, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createSQL); err != nil {
			return scriptError(createTempScript, err)
		}

		table := batch.Kind.TempTable()
		n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, batch.Columns, pgx.CopyFromRows(batch.Rows))
		if err != nil {
			return fmt.Errorf("failed to copy %d %s rows into %s: %w: %w", batch.Len(), batch.Kind, table, loanstage.ErrPersistence, err)
		}
		w.logger.Verbose("Copied %d rows into %s", n, table)

		tag, err := tx.Exec(ctx, upsertSQL)
		if err != nil {
			return scriptError(upsertScript, err)
		}
		w.logger.Verbose("%s affected %d rows", upsertScript, tag.RowsAffected())
		return nil
	})
}

// LastLoadedPart reads the loaded-part marker.
func (w *PgWarehouse) LastLoadedPart(ctx context.Context) (int, bool, error) {
	var last *int32
	if err := w.db.QueryRow(ctx, lastLoadedPartQuery).Scan(&last); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return 0, false, fmt.Errorf("staging.clients does not exist, run 'loanstage shema' first: %w: %w", loanstage.ErrPersistence, err)
		}
		return 0, false, fmt.Errorf("failed to read last loaded part: %w: %w", loanstage.ErrPersistence, err)
	}
	if last == nil {
		return 0, false, nil
	}
	return int(*last), true, nil
}

func (w *PgWarehouse) inTx(ctx context.Context, name string, fn func(pgx.Tx) error) error {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w: %w", name, loanstage.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w: %w", name, loanstage.ErrPersistence, err)
	}
	return nil
}

func scriptError(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("SQL script %s failed (SQLSTATE %s): %s: %w: %w", name, pgErr.Code, pgErr.Message, loanstage.ErrPersistence, err)
	}
	return fmt.Errorf("SQL script %s failed: %w: %w", name, loanstage.ErrPersistence, err)
}
