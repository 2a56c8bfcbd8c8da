package poolmanager

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
)

// txKey is the context key for storing a transaction, ported from
// pgrepo's session helpers so callers that migrate from a single pgrepo.DB
// to a routed Manager keep the same WithTx/GetTx call shape.
type txKey struct{}

// ErrNotAPgxConnection is returned by the Tx/Exec/Query helpers when the
// manager's adapter does not hand out *pgxpool.Conn connections (e.g. a
// test double), since these helpers are necessarily pgx-specific.
var ErrNotAPgxConnection = errors.New("poolmanager: connection is not a *pgxpool.Conn")

// WithTx acquires a connection via AcquireOptions, begins a transaction
// on it, and runs fn inside it. The transaction commits if fn returns
// nil and rolls back otherwise; the underlying connection is always
// released back to its pool afterward.
func WithTx(ctx context.Context, m *Manager, opts AcquireOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	conn, pool, err := m.Acquire(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Release(context.Background(), conn)
	}()
	_ = pool

	pgxConn, ok := conn.(*pgxpool.Conn)
	if !ok {
		return ErrNotAPgxConnection
	}

	tx, err := pgxConn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	ctxWithTx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctxWithTx, tx); err != nil {
		return errors.Wrap(err, "execute transaction")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

// GetTx retrieves the transaction stashed in ctx by WithTx, if any.
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Exec runs a query against connection, routing through a transaction
// found in ctx if WithTx put one there.
func Exec(ctx context.Context, connection driver.Connection, query string, args ...any) (int64, error) {
	if tx, ok := GetTx(ctx); ok {
		result, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return result.RowsAffected(), nil
	}

	pgxConn, ok := connection.(*pgxpool.Conn)
	if !ok {
		return 0, ErrNotAPgxConnection
	}
	result, err := pgxConn.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// QueryRow runs a query expected to return at most one row.
func QueryRow(ctx context.Context, connection driver.Connection, query string, args []any, dest ...any) error {
	if tx, ok := GetTx(ctx); ok {
		return tx.QueryRow(ctx, query, args...).Scan(dest...)
	}

	pgxConn, ok := connection.(*pgxpool.Conn)
	if !ok {
		return ErrNotAPgxConnection
	}
	return pgxConn.QueryRow(ctx, query, args...).Scan(dest...)
}

// Query runs a query returning multiple rows, invoking fn with the
// resulting pgx.Rows.
func Query(ctx context.Context, connection driver.Connection, query string, args []any, fn func(rows pgx.Rows) error) error {
	if tx, ok := GetTx(ctx); ok {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		return fn(rows)
	}

	pgxConn, ok := connection.(*pgxpool.Conn)
	if !ok {
		return ErrNotAPgxConnection
	}
	rows, err := pgxConn.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return fn(rows)
}
