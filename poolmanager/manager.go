// Package poolmanager is the top-level acquire orchestrator: it splits
// a multi-host DSN, runs one monitor.Monitor per host, and routes
// Acquire/Release calls through a balancer.Policy over the resulting
// registry.Registry. Ported from original_source/hasql/base.py's
// BasePoolManager, built the way pgrepo.DB is built (functional
// options, protocol.Lifecycle-shaped Start/Stop) so it plugs into
// application.Application the same way pgrepo.DB was meant to.
package poolmanager

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
	"github.com/242617/hasql/dsn"
	"github.com/242617/hasql/metrics"
	"github.com/242617/hasql/monitor"
	"github.com/242617/hasql/pipeline"
	"github.com/242617/hasql/protocol"
	"github.com/242617/hasql/registry"
	"github.com/242617/hasql/stopwatch"
)

// Manager is the acquire orchestrator. It implements protocol.Lifecycle
// so it can be hosted by application.Application like any other
// component.
type Manager struct {
	cfg     Config
	adapter driver.Adapter
	policy  balancer.Policy
	log     protocol.Logger
	sink    monitor.Sink

	hosts []dsn.DSN

	reg     *registry.Registry
	sw      *stopwatch.Stopwatch[driver.Pool]
	metrics *metrics.Accumulator

	mu       sync.RWMutex
	pools    []driver.Pool // one slot per host, in dsn.Split order
	monitors []*monitor.Monitor

	cancel context.CancelFunc
	wg     sync.WaitGroup

	stateMu sync.Mutex
	started bool
	closed  bool
}

var _ protocol.Lifecycle = (*Manager)(nil)
var _ balancer.PoolView = (*Manager)(nil)

// New builds a Manager from options. The manager does not create any
// pools until Start is called.
func New(options ...Option) (*Manager, error) {
	m := &Manager{}

	for _, option := range append(defaults(), options...) {
		if err := option(m); err != nil {
			return nil, errors.Wrap(err, "apply option")
		}
	}

	if err := m.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if m.adapter == nil {
		return nil, errors.New("adapter is required")
	}

	hosts, err := dsn.Split(m.cfg.DSN, dsn.DefaultPort)
	if err != nil {
		return nil, errors.Wrap(err, "split dsn")
	}
	m.hosts = hosts

	canonDSNs := make([]string, len(hosts))
	for i, h := range hosts {
		canonDSNs[i] = h.String()
	}

	m.reg = registry.New(canonDSNs)
	m.sw = stopwatch.New[driver.Pool](m.cfg.StopwatchWindowSize)
	m.metrics = metrics.NewAccumulator()
	m.pools = make([]driver.Pool, len(hosts))
	m.monitors = make([]*monitor.Monitor, len(hosts))

	return m, nil
}

// Start creates one monitor per host and begins probing. It returns
// once every monitor goroutine has been launched; it does not wait for
// any host to become ready (call Ready for that).
func (m *Manager) Start(ctx context.Context) error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	for i, host := range m.hosts {
		i, host := i, host
		mon := monitor.New(monitor.Config{
			DSN:            host,
			PoolOptions:    m.cfg.PoolOptions,
			RefreshDelay:   m.cfg.RefreshDelay,
			RefreshTimeout: m.cfg.RefreshTimeout,
			Logger:         m.log,
			Sink:           m.sink,
		}, m.adapter, m.reg, m.sw)

		m.mu.Lock()
		m.monitors[i] = mon
		m.mu.Unlock()

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			mon.Run(runCtx)
		}()

		go m.publishPoolWhenReady(runCtx, i, mon)
	}

	m.log.Info(ctx, "pool manager started", "hosts", len(m.hosts))
	m.started = true
	return nil
}

// publishPoolWhenReady copies a monitor's created pool into the host
// array as soon as it exists, so Pools() can serve round-robin without
// reaching into monitor internals on every call.
func (m *Manager) publishPoolWhenReady(ctx context.Context, index int, mon *monitor.Monitor) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if pool := mon.Pool(); pool != nil {
			m.mu.Lock()
			m.pools[index] = pool
			m.mu.Unlock()
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop gracefully drains every pool, per spec.md §4.5's close()
// contract.
func (m *Manager) Stop(ctx context.Context) error {
	return m.Close(ctx)
}

// Close cancels every monitor, releases borrowed connections, clears
// the registry, then closes every pool concurrently. Errors from
// individual ClosePool calls are logged, not returned, matching the
// original's "return_exceptions=True" gather.
func (m *Manager) Close(ctx context.Context) error {
	m.stateMu.Lock()
	if m.closed {
		m.stateMu.Unlock()
		return nil
	}
	m.closed = true
	m.stateMu.Unlock()

	m.shutdownMonitorsAndBorrowed()

	m.mu.RLock()
	pools := append([]driver.Pool(nil), m.pools...)
	m.mu.RUnlock()

	funcs := make([]pipeline.Func, 0, len(pools))
	for _, pool := range pools {
		if pool == nil {
			continue
		}
		pool := pool
		funcs = append(funcs, func(pctx context.Context) error {
			if err := m.adapter.ClosePool(pctx, pool); err != nil {
				m.log.Warn(ctx, "closing pool failed", "error", err)
			}
			return nil
		})
	}
	done := make(chan struct{})
	pipeline.New(ctx, funcs...).Run(func(error) { close(done) })
	<-done

	m.log.Info(ctx, "pool manager closed")
	return nil
}

// Terminate is Close's forced variant: monitors are canceled and
// borrowed connections dropped the same way, but pools are terminated
// sequentially via TerminatePool instead of drained concurrently.
func (m *Manager) Terminate(ctx context.Context) error {
	m.stateMu.Lock()
	if m.closed {
		m.stateMu.Unlock()
		return nil
	}
	m.closed = true
	m.stateMu.Unlock()

	m.shutdownMonitorsAndBorrowed()

	m.mu.RLock()
	pools := append([]driver.Pool(nil), m.pools...)
	m.mu.RUnlock()

	for _, pool := range pools {
		if pool == nil {
			continue
		}
		m.adapter.TerminatePool(pool)
	}

	m.log.Info(ctx, "pool manager terminated")
	return nil
}

func (m *Manager) shutdownMonitorsAndBorrowed() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.RLock()
	monitors := append([]*monitor.Monitor(nil), m.monitors...)
	m.mu.RUnlock()

	for _, mon := range monitors {
		if mon != nil {
			mon.Close()
		}
	}
	m.wg.Wait()

	m.reg.Reset()
}
