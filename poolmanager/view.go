package poolmanager

import (
	"context"
	"time"

	"github.com/242617/hasql/driver"
)

// MasterPools implements balancer.PoolView: a snapshot of the current
// master set, blocking while it is empty until at least one master
// exists or ctx is done.
func (m *Manager) MasterPools(ctx context.Context) ([]driver.Pool, error) {
	pools := m.reg.MasterPools()
	if len(pools) > 0 {
		return pools, nil
	}
	if err := m.reg.WaitMastersReady(ctx, 1); err != nil {
		return nil, err
	}
	return m.reg.MasterPools(), nil
}

// ReplicaPools implements balancer.PoolView: a snapshot of the current
// replica set. If it is empty, it returns MasterPools right away when
// fallbackMaster is set, and otherwise blocks until a replica exists or
// ctx is done.
func (m *Manager) ReplicaPools(ctx context.Context, fallbackMaster bool) ([]driver.Pool, error) {
	pools := m.reg.ReplicaPools()
	if len(pools) > 0 {
		return pools, nil
	}
	if fallbackMaster {
		return m.MasterPools(ctx)
	}
	if err := m.reg.WaitReplicasReady(ctx, 1); err != nil {
		return nil, err
	}
	return m.reg.ReplicaPools(), nil
}

// MasterPoolCount and ReplicaPoolCount implement balancer.PoolView.
func (m *Manager) MasterPoolCount() int  { return m.reg.MasterCount() }
func (m *Manager) ReplicaPoolCount() int { return m.reg.ReplicaCount() }

// PoolFreeSize implements balancer.PoolView.
func (m *Manager) PoolFreeSize(pool driver.Pool) int {
	return m.adapter.FreeSize(pool)
}

// LastResponseTime implements balancer.PoolView.
func (m *Manager) LastResponseTime(pool driver.Pool) (time.Duration, bool) {
	return m.sw.Median(pool)
}

// PoolIsMaster and PoolIsReplica implement balancer.PoolView.
func (m *Manager) PoolIsMaster(pool driver.Pool) bool  { return m.reg.IsMaster(pool) }
func (m *Manager) PoolIsReplica(pool driver.Pool) bool { return m.reg.IsReplica(pool) }

// Pools implements balancer.PoolView: every configured host slot, in
// dsn.Split order, with nil entries for hosts whose pool has not been
// created yet.
func (m *Manager) Pools() []driver.Pool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]driver.Pool(nil), m.pools...)
}

// WaitMastersReady and WaitReplicasReady implement balancer.PoolView.
func (m *Manager) WaitMastersReady(ctx context.Context, n int) error {
	return m.reg.WaitMastersReady(ctx, n)
}

func (m *Manager) WaitReplicasReady(ctx context.Context, n int) error {
	return m.reg.WaitReplicasReady(ctx, n)
}
