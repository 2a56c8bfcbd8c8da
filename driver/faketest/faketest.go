// Package faketest implements an in-memory driver.Adapter for tests,
// ported from the original hasql Python test suite's TestPoolManager
// mock (tests/mocks/pool_manager.py): every pool is a small set of fake
// connections whose role and availability the test controls directly,
// instead of talking to a real database.
package faketest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
)

// ErrBehindFirewall names the state of a fake pool marked as behind a
// firewall. IsMaster does not return it: on such a pool the role probe
// blocks until ctx is done and returns ctx.Err().
var ErrBehindFirewall = errors.New("faketest: host is behind firewall")

// ErrPoolShutDown is returned when an operation targets a pool whose
// Shutdown method has been called, simulating a connection refused.
var ErrPoolShutDown = errors.New("faketest: pool is shut down")

// Conn is a fake connection belonging to a Pool.
type Conn struct {
	pool   *Pool
	closed bool
}

// Pool is an in-memory fake of a single-host connection pool, addressable
// and mutable by tests: SetMaster, Shutdown/Startup, and BehindFirewall
// let a test drive every branch of the monitor and balancer without a
// real Postgres instance.
type Pool struct {
	mu sync.Mutex

	dsn            string
	isMaster       bool
	running        bool
	behindFirewall bool

	free []*Conn
	used map[*Conn]bool
}

// NewPool creates a fake pool of size conns for dsn, running and not
// marked as master unless SetMaster is called.
func NewPool(dsn string, conns int) *Pool {
	p := &Pool{
		dsn:     dsn,
		running: true,
		used:    make(map[*Conn]bool),
	}
	for i := 0; i < conns; i++ {
		p.free = append(p.free, &Conn{pool: p})
	}
	return p
}

// SetMaster sets whether probes against this pool report master.
func (p *Pool) SetMaster(isMaster bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isMaster = isMaster
}

// Shutdown makes every future probe fail as if the host were unreachable.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}

// Startup reverses Shutdown and resets the pool to replica role.
func (p *Pool) Startup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.isMaster = false
}

// BehindFirewall makes the role probe block until ctx is canceled,
// simulating a host whose probe query never returns.
func (p *Pool) BehindFirewall(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.behindFirewall = v
}

// FreeSize returns the number of idle fake connections.
func (p *Pool) FreeSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Adapter is a driver.Adapter over in-memory Pool/Conn values. Pools must
// be preregistered via Register before CreatePool is called for their
// DSN, mirroring the original mock's "tests construct the pool by hand,
// the manager never calls a real factory" setup.
type Adapter struct {
	mu    sync.Mutex
	pools map[string]*Pool
}

// New creates an empty Adapter.
func New() *Adapter {
	return &Adapter{pools: make(map[string]*Pool)}
}

var _ driver.Adapter = (*Adapter)(nil)

// Register preregisters pool under dsn so CreatePool(ctx, dsn, ...) can
// return it.
func (a *Adapter) Register(dsn string, pool *Pool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pools[dsn] = pool
}

// Pool returns the pool registered for dsn, if any.
func (a *Adapter) Pool(dsn string) (*Pool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[dsn]
	return p, ok
}

func (a *Adapter) PrepareFactoryKwargs(opts driver.PoolOptions) driver.PoolOptions {
	if opts.MinConns > 0 {
		opts.MinConns++
	}
	opts.MaxConns++
	return opts
}

func (a *Adapter) CreatePool(_ context.Context, dsn string, _ driver.PoolOptions) (driver.Pool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[dsn]
	if !ok {
		return nil, errors.Errorf("faketest: no pool registered for dsn %q", dsn)
	}
	return p, nil
}

func (a *Adapter) ClosePool(_ context.Context, pool driver.Pool) error {
	p := pool.(*Pool)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.free {
		c.closed = true
	}
	return nil
}

func (a *Adapter) TerminatePool(pool driver.Pool) {
	p := pool.(*Pool)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.free {
		c.closed = true
	}
	for c := range p.used {
		c.closed = true
	}
}

func (a *Adapter) AcquireFromPool(ctx context.Context, pool driver.Pool) (driver.Connection, error) {
	p := pool.(*Pool)
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil, ErrPoolShutDown
	}
	if len(p.free) == 0 {
		return nil, errors.New("faketest: pool exhausted")
	}

	c := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.used[c] = true
	return c, nil
}

func (a *Adapter) ReleaseToPool(_ context.Context, connection driver.Connection, pool driver.Pool) error {
	p := pool.(*Pool)
	c := connection.(*Conn)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.used, c)
	p.free = append(p.free, c)
	return nil
}

func (a *Adapter) IsMaster(ctx context.Context, connection driver.Connection) (bool, error) {
	c := connection.(*Conn)
	p := c.pool

	p.mu.Lock()
	running := p.running
	firewalled := p.behindFirewall
	isMaster := p.isMaster
	p.mu.Unlock()

	if !running {
		return false, ErrPoolShutDown
	}
	if firewalled {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return isMaster, nil
}

func (a *Adapter) FreeSize(pool driver.Pool) int {
	return pool.(*Pool).FreeSize()
}

func (a *Adapter) IsConnectionClosed(connection driver.Connection) bool {
	c := connection.(*Conn)
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	return c.closed
}

func (a *Adapter) Host(pool driver.Pool) string {
	return pool.(*Pool).dsn
}
