package poolmanager

import "github.com/242617/hasql/metrics"

var _ metrics.Source = (*Manager)(nil)

// Metrics implements metrics.Source: the accumulated selection/acquire
// counters plus a fresh occupancy snapshot of every created pool.
func (m *Manager) Metrics() metrics.Metrics {
	pools := m.Pools()

	drivers := make([]metrics.DriverMetrics, 0, len(pools))
	for _, pool := range pools {
		if pool == nil {
			continue
		}
		drivers = append(drivers, metrics.DriverMetrics{
			Max:  int(m.cfg.PoolOptions.MaxConns),
			Min:  int(m.cfg.PoolOptions.MinConns),
			Idle: m.adapter.FreeSize(pool),
			Host: m.adapter.Host(pool),
		})
	}

	return metrics.Metrics{
		Drivers: drivers,
		Hasql:   m.metrics.Snapshot(),
	}
}
