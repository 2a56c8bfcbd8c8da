package poolmanager

import (
	"context"

	"github.com/pkg/errors"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
)

// AcquireOptions configures a single Acquire call, mirroring
// BasePoolManager.acquire's keyword arguments.
type AcquireOptions struct {
	ReadOnly              bool
	FallbackMaster        bool
	MasterAsReplicaWeight *float64
}

func (o AcquireOptions) validate() error {
	if o.MasterAsReplicaWeight == nil {
		return nil
	}
	if !o.ReadOnly {
		return ErrMasterAsReplicaWeightMisuse
	}
	if *o.MasterAsReplicaWeight < 0 || *o.MasterAsReplicaWeight > 1 {
		return ErrWeightOutOfRange
	}
	return nil
}

// Acquire selects a pool via the configured balancer policy and
// borrows a connection from it, both bounded by the manager's
// acquire_timeout. The caller must Release the returned connection
// (and pool) when done; AcquireScoped is usually more convenient.
func (m *Manager) Acquire(ctx context.Context, opts AcquireOptions) (driver.Connection, driver.Pool, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if !m.isStarted() {
		return nil, nil, ErrNotStarted
	}
	if m.isClosed() {
		return nil, nil, ErrAlreadyClosed
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.AcquireTimeout)
	defer cancel()

	var pool driver.Pool
	var err error
	m.metrics.WithGetPool(func() {
		pool, err = balancer.GetPool(ctx, m.policy, m, balancer.Options{
			ReadOnly:              opts.ReadOnly,
			FallbackMaster:        opts.FallbackMaster,
			MasterAsReplicaWeight: opts.MasterAsReplicaWeight,
		})
	})
	if err != nil {
		return nil, nil, timeoutOr(err)
	}

	var conn driver.Connection
	m.metrics.WithAcquire(func() {
		conn, err = m.adapter.AcquireFromPool(ctx, pool)
	})
	if err != nil {
		return nil, nil, timeoutOr(err)
	}

	m.reg.RegisterConnection(conn, pool)
	return conn, pool, nil
}

// AcquireMaster is a shorthand for Acquire with ReadOnly false.
func (m *Manager) AcquireMaster(ctx context.Context) (driver.Connection, driver.Pool, error) {
	return m.Acquire(ctx, AcquireOptions{})
}

// AcquireReplica is a shorthand for Acquire with ReadOnly true.
func (m *Manager) AcquireReplica(ctx context.Context, fallbackMaster bool) (driver.Connection, driver.Pool, error) {
	return m.Acquire(ctx, AcquireOptions{ReadOnly: true, FallbackMaster: fallbackMaster})
}

// Release returns connection to the pool it was most recently
// Acquire'd from. Calling it with a connection not obtained from this
// manager (or already released) returns ErrUnknownConnection.
func (m *Manager) Release(ctx context.Context, connection driver.Connection) error {
	pool, ok := m.reg.PopConnection(connection)
	if !ok {
		return ErrUnknownConnection
	}
	return m.adapter.ReleaseToPool(ctx, connection, pool)
}

// AcquireScoped borrows a connection, passes it to fn, and always
// releases it afterward regardless of fn's outcome.
func (m *Manager) AcquireScoped(ctx context.Context, opts AcquireOptions, fn func(conn driver.Connection) error) error {
	conn, _, err := m.Acquire(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Release(context.Background(), conn)
	}()
	return fn(conn)
}

// Ready reports whether the manager currently satisfies the given
// readiness thresholds. Both counts must be set together, or both left
// nil to mean "at least one of each role".
func (m *Manager) Ready(mastersCount, replicasCount *int) (bool, error) {
	switch {
	case (mastersCount == nil) != (replicasCount == nil):
		return false, ErrInvalidReadyArgs
	case mastersCount != nil && *mastersCount < 0:
		return false, ErrNegativeCount
	case replicasCount != nil && *replicasCount < 0:
		return false, ErrNegativeCount
	}

	wantMasters, wantReplicas := 1, 1
	if mastersCount != nil {
		wantMasters, wantReplicas = *mastersCount, *replicasCount
	}

	return m.reg.MasterCount() >= wantMasters && m.reg.ReplicaCount() >= wantReplicas, nil
}

// WaitAllReady blocks until every configured host has completed its
// first role check, or ctx is done.
func (m *Manager) WaitAllReady(ctx context.Context) error {
	for _, canonDSN := range m.reg.DSNs() {
		if err := m.reg.WaitReady(ctx, canonDSN); err != nil {
			return errors.Wrapf(err, "waiting for %s", canonDSN)
		}
	}
	return nil
}

// WaitNextPoolCheck blocks until every configured host has completed
// a fresh probe cycle after the call, or ctx is done.
func (m *Manager) WaitNextPoolCheck(ctx context.Context) error {
	for _, canonDSN := range m.reg.DSNs() {
		if err := m.reg.WaitNextCheck(ctx, canonDSN); err != nil {
			return errors.Wrapf(err, "waiting for next check of %s", canonDSN)
		}
	}
	return nil
}

// IsConnectionClosed passes through to the adapter, for callers that
// hold a connection past a failed query and want to know whether it is
// worth releasing versus discarding.
func (m *Manager) IsConnectionClosed(connection driver.Connection) bool {
	return m.adapter.IsConnectionClosed(connection)
}

func (m *Manager) isStarted() bool {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.started
}

func (m *Manager) isClosed() bool {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.closed
}

func timeoutOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrAcquireTimeout
	}
	return err
}
