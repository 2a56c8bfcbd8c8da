// Package driver defines the capability the pool manager consumes from an
// underlying database driver. It is the one interface the core never
// implements itself; concrete adapters (e.g. pgxadapter) live alongside
// it.
package driver

import (
	"context"
	"time"
)

// Pool is an opaque, comparable handle to a single-host connection pool.
// Adapters hand these out from CreatePool and the core treats them as
// identities: it never inspects a Pool's fields, only compares it,
// stores it in sets and maps, and passes it back to the adapter.
type Pool = any

// Connection is an opaque handle to a single connection borrowed from a
// Pool. Adapters may return either a scoped handle (auto-release) or a
// bare connection; the core always routes release back through the
// adapter rather than assuming either shape.
type Connection = any

// PoolOptions configures a single-host pool at creation time. It
// generalizes the per-host pool tuning the teacher's pgrepo.Config
// exposed (min/max conns, lifetimes) to a connection-pool-per-DSN model.
type PoolOptions struct {
	MinConns        int32         `yaml:"min_conns" default:"2"`
	MaxConns        int32         `yaml:"max_conns" default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"1h"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" default:"30m"`
}

// Adapter is the capability interface implemented by a concrete database
// driver binding (spec §4.1). All methods except TerminatePool, FreeSize,
// Host, IsConnectionClosed and PrepareFactoryKwargs may block and must
// respect ctx.
type Adapter interface {
	// CreatePool constructs and fully initializes a single-host pool,
	// respecting the creation timeout carried by ctx.
	CreatePool(ctx context.Context, dsn string, opts PoolOptions) (Pool, error)

	// ClosePool gracefully drains pool.
	ClosePool(ctx context.Context, pool Pool) error

	// TerminatePool forces pool shut down without blocking the caller.
	TerminatePool(pool Pool)

	// AcquireFromPool borrows a connection, respecting ctx's deadline.
	AcquireFromPool(ctx context.Context, pool Pool) (Connection, error)

	// ReleaseToPool returns a connection previously obtained from pool.
	ReleaseToPool(ctx context.Context, connection Connection, pool Pool) error

	// IsMaster issues the role probe query and reports whether the
	// connection is attached to a read-write (master) instance.
	IsMaster(ctx context.Context, connection Connection) (bool, error)

	// FreeSize returns the number of idle connections in pool. Must not
	// block.
	FreeSize(pool Pool) int

	// IsConnectionClosed reports whether connection has already been
	// closed by the driver.
	IsConnectionClosed(connection Connection) bool

	// Host returns the host component of pool's DSN, used in metrics.
	Host(pool Pool) string

	// PrepareFactoryKwargs gives the adapter one chance to reserve pool
	// capacity for the monitor's own probe connection, so that effective
	// application capacity equals MaxConns-1.
	PrepareFactoryKwargs(opts PoolOptions) PoolOptions
}
