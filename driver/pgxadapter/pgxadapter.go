// Package pgxadapter implements driver.Adapter on top of jackc/pgx's
// connection pool, adapted from the teacher repo's pgrepo package (which
// built a single master pool plus a static list of replica pools from one
// Config). Here every pool is created the same way, one per split DSN,
// and role discovery happens continuously instead of once at startup.
package pgxadapter

import (
	"context"
	"strconv"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
)

// probeQuery is the query spec requires: true iff the result is "off".
const probeQuery = "SHOW transaction_read_only"

// Adapter is the pgx/v5-backed driver.Adapter. Pool values are
// *pgxpool.Pool and Connection values are *pgxpool.Conn.
type Adapter struct{}

// New creates a pgx-backed adapter. It holds no state of its own; all
// state lives in the pools it creates.
func New() *Adapter {
	return &Adapter{}
}

var _ driver.Adapter = (*Adapter)(nil)

// PrepareFactoryKwargs reserves one slot of pool capacity for the
// monitor's own probe connection, mirroring the original asyncpg adapter
// (_prepare_pool_factory_kwargs: min_size+1, max_size+1).
func (a *Adapter) PrepareFactoryKwargs(opts driver.PoolOptions) driver.PoolOptions {
	if opts.MinConns > 0 {
		opts.MinConns++
	}
	opts.MaxConns++
	return opts
}

// CreatePool builds a pgxpool.Pool for a single host DSN and pings it to
// confirm connectivity, the same two-step construction pgrepo.DB.Start
// used for the master pool.
func (a *Adapter) CreatePool(ctx context.Context, rawDSN string, opts driver.PoolOptions) (driver.Pool, error) {
	cfg, err := pgxpool.ParseConfig(rawDSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse pool config")
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	}
	if opts.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping pool")
	}

	return pool, nil
}

// ClosePool gracefully drains the pool. pgxpool.Pool.Close already waits
// for borrowed connections to return before releasing resources.
func (a *Adapter) ClosePool(_ context.Context, pool driver.Pool) error {
	pool.(*pgxpool.Pool).Close()
	return nil
}

// TerminatePool forces the pool shut down on its own goroutine so the
// caller is never blocked draining in-flight connections (spec: "offload
// if the underlying call is synchronous").
func (a *Adapter) TerminatePool(pool driver.Pool) {
	p := pool.(*pgxpool.Pool)
	go p.Close()
}

// AcquireFromPool borrows a connection from the pool.
func (a *Adapter) AcquireFromPool(ctx context.Context, pool driver.Pool) (driver.Connection, error) {
	conn, err := pool.(*pgxpool.Pool).Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection")
	}
	return conn, nil
}

// ReleaseToPool releases a connection back to its pool.
func (a *Adapter) ReleaseToPool(_ context.Context, connection driver.Connection, _ driver.Pool) error {
	connection.(*pgxpool.Conn).Release()
	return nil
}

// transactionReadOnly is the single-column row shape scanned out of
// SHOW transaction_read_only via scany, instead of a raw Scan call.
type transactionReadOnly struct {
	TransactionReadOnly string `db:"transaction_read_only"`
}

// IsMaster issues SHOW transaction_read_only and returns true iff the
// result is "off".
func (a *Adapter) IsMaster(ctx context.Context, connection driver.Connection) (bool, error) {
	conn := connection.(*pgxpool.Conn)

	rows, err := conn.Query(ctx, probeQuery)
	if err != nil {
		return false, errors.Wrap(err, "show transaction_read_only")
	}
	defer rows.Close()

	var result transactionReadOnly
	if err := pgxscan.ScanOne(&result, rows); err != nil {
		return false, errors.Wrap(err, "scan transaction_read_only")
	}

	return result.TransactionReadOnly == "off", nil
}

// FreeSize returns the number of idle connections currently in the pool.
func (a *Adapter) FreeSize(pool driver.Pool) int {
	return int(pool.(*pgxpool.Pool).Stat().IdleConns())
}

// IsConnectionClosed reports whether the connection's underlying pgconn
// is closed.
func (a *Adapter) IsConnectionClosed(connection driver.Connection) bool {
	conn := connection.(*pgxpool.Conn)
	return conn.Conn().IsClosed()
}

// Host returns the connection pool's configured host:port, used in
// metrics snapshots.
func (a *Adapter) Host(pool driver.Pool) string {
	cfg := pool.(*pgxpool.Pool).Config().ConnConfig
	return cfg.Host + ":" + strconv.Itoa(int(cfg.Port))
}
