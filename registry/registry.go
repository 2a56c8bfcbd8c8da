// Package registry tracks which pools are currently serving as master or
// replica and lets callers wait for readiness conditions, ported from the
// original hasql BasePoolManager's pool-set/condition bookkeeping
// (original_source/hasql/base.go) into explicit Go concurrency
// primitives, since Go has no single-threaded event loop to lean on.
package registry

import (
	"context"
	"sync"

	"github.com/242617/hasql/driver"
)

// Registry holds the live master/replica pool sets for a fixed list of
// DSNs, plus the readiness signaling the pool manager and its callers
// need: a one-shot "first check done" event per DSN, a "just rechecked"
// broadcast per DSN, and count-threshold conditions for the master and
// replica sets as a whole.
type Registry struct {
	dsns []string

	mu       sync.RWMutex
	masters  map[driver.Pool]string // pool -> dsn
	replicas map[driver.Pool]string

	masterCond  *sync.Cond
	replicaCond *sync.Cond

	readyOnce map[string]*onceSignal
	checkGen  map[string]*genSignal

	unmanagedMu sync.Mutex
	unmanaged   map[driver.Connection]driver.Pool
}

// New creates a Registry for the given list of canonical DSN strings.
func New(dsns []string) *Registry {
	r := &Registry{
		dsns:      append([]string(nil), dsns...),
		masters:   make(map[driver.Pool]string),
		replicas:  make(map[driver.Pool]string),
		readyOnce: make(map[string]*onceSignal),
		checkGen:  make(map[string]*genSignal),
		unmanaged: make(map[driver.Connection]driver.Pool),
	}
	r.masterCond = sync.NewCond(&r.mu)
	r.replicaCond = sync.NewCond(&r.mu)
	for _, dsn := range dsns {
		r.readyOnce[dsn] = newOnceSignal()
		r.checkGen[dsn] = newGenSignal()
	}
	return r
}

// DSNs returns the canonical DSN list this registry was built from.
func (r *Registry) DSNs() []string {
	return append([]string(nil), r.dsns...)
}

// AddMaster adds pool to the master set under dsn, removing it from the
// replica set if present, and wakes any waiters on master readiness.
func (r *Registry) AddMaster(pool driver.Pool, dsn string) {
	r.mu.Lock()
	_, already := r.masters[pool]
	delete(r.replicas, pool)
	r.masters[pool] = dsn
	r.mu.Unlock()

	if !already {
		r.masterCond.Broadcast()
	}
	r.replicaCond.Broadcast()
}

// AddReplica adds pool to the replica set under dsn, removing it from the
// master set if present, and wakes any waiters on replica readiness.
func (r *Registry) AddReplica(pool driver.Pool, dsn string) {
	r.mu.Lock()
	_, already := r.replicas[pool]
	delete(r.masters, pool)
	r.replicas[pool] = dsn
	r.mu.Unlock()

	if !already {
		r.replicaCond.Broadcast()
	}
	r.masterCond.Broadcast()
}

// RemoveMaster drops pool from the master set, if present.
func (r *Registry) RemoveMaster(pool driver.Pool) {
	r.mu.Lock()
	delete(r.masters, pool)
	r.mu.Unlock()
}

// RemoveReplica drops pool from the replica set, if present.
func (r *Registry) RemoveReplica(pool driver.Pool) {
	r.mu.Lock()
	delete(r.replicas, pool)
	r.mu.Unlock()
}

// Remove drops pool from both sets, e.g. once its host is permanently
// gone.
func (r *Registry) Remove(pool driver.Pool) {
	r.mu.Lock()
	delete(r.masters, pool)
	delete(r.replicas, pool)
	r.mu.Unlock()
	r.masterCond.Broadcast()
	r.replicaCond.Broadcast()
}

// MasterPools returns a snapshot of the current master set.
func (r *Registry) MasterPools() []driver.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driver.Pool, 0, len(r.masters))
	for p := range r.masters {
		out = append(out, p)
	}
	return out
}

// ReplicaPools returns a snapshot of the current replica set.
func (r *Registry) ReplicaPools() []driver.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driver.Pool, 0, len(r.replicas))
	for p := range r.replicas {
		out = append(out, p)
	}
	return out
}

// MasterCount and ReplicaCount report the current set sizes.
func (r *Registry) MasterCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.masters)
}

func (r *Registry) ReplicaCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.replicas)
}

// IsMaster and IsReplica report pool's current classification.
func (r *Registry) IsMaster(pool driver.Pool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.masters[pool]
	return ok
}

func (r *Registry) IsReplica(pool driver.Pool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.replicas[pool]
	return ok
}

// MarkReady fires the one-shot readiness signal for dsn, the registry
// equivalent of the original's per-DSN asyncio.Event. Safe to call more
// than once; only the first call has an effect.
func (r *Registry) MarkReady(dsn string) {
	if s, ok := r.readyOnce[dsn]; ok {
		s.fire()
	}
}

// WaitReady blocks until dsn's first role check has completed, or ctx is
// canceled.
func (r *Registry) WaitReady(ctx context.Context, dsn string) error {
	s, ok := r.readyOnce[dsn]
	if !ok {
		return nil
	}
	return s.wait(ctx)
}

// NotifyChecked signals that a check cycle for dsn has just completed,
// waking any WaitNextCheck callers.
func (r *Registry) NotifyChecked(dsn string) {
	if s, ok := r.checkGen[dsn]; ok {
		s.bump()
	}
}

// WaitNextCheck blocks until two check cycles for dsn have completed
// after the call, mirroring the original's _wait_checking_pool (which
// waits for two notifications to guarantee a full check has elapsed, not
// just the tail of one already in flight).
func (r *Registry) WaitNextCheck(ctx context.Context, dsn string) error {
	s, ok := r.checkGen[dsn]
	if !ok {
		return nil
	}
	return s.waitN(ctx, 2)
}

// WaitMastersReady blocks until the master set has at least n members.
func (r *Registry) WaitMastersReady(ctx context.Context, n int) error {
	return r.waitCount(ctx, r.masterCond, func() int { return len(r.masters) }, n)
}

// WaitReplicasReady blocks until the replica set has at least n members.
func (r *Registry) WaitReplicasReady(ctx context.Context, n int) error {
	return r.waitCount(ctx, r.replicaCond, func() int { return len(r.replicas) }, n)
}

// waitCount blocks on cond until count() >= n or ctx is done. sync.Cond
// has no context-aware Wait, so a watcher goroutine broadcasts once more
// when ctx is canceled to unblock the waiter.
func (r *Registry) waitCount(ctx context.Context, cond *sync.Cond, count func() int, n int) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cond.Broadcast()
		case <-done:
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()
	for count() < n {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cond.Wait()
	}
	return ctx.Err()
}

// RegisterConnection associates connection with the pool it was borrowed
// from, for a later unscoped Release call.
func (r *Registry) RegisterConnection(connection driver.Connection, pool driver.Pool) {
	r.unmanagedMu.Lock()
	defer r.unmanagedMu.Unlock()
	r.unmanaged[connection] = pool
}

// PopConnection removes and returns the pool connection was registered
// against, or ok=false if it is not a known unmanaged connection.
func (r *Registry) PopConnection(connection driver.Connection) (driver.Pool, bool) {
	r.unmanagedMu.Lock()
	defer r.unmanagedMu.Unlock()
	pool, ok := r.unmanaged[connection]
	if ok {
		delete(r.unmanaged, connection)
	}
	return pool, ok
}

// Reset clears both pool sets and the unmanaged connection map, used on
// manager close/terminate.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.masters = make(map[driver.Pool]string)
	r.replicas = make(map[driver.Pool]string)
	r.mu.Unlock()

	r.unmanagedMu.Lock()
	r.unmanaged = make(map[driver.Connection]driver.Pool)
	r.unmanagedMu.Unlock()
}
