// Package monitor runs the per-host role-detection loop: create a pool,
// then forever probe it for master/replica role until the manager shuts
// the monitor down. Ported from the original hasql BasePoolManager's
// _check_pool_task/_wait_creating_pool/_periodic_pool_check
// (original_source/hasql/base.py), with the phases named in spec.md
// §4.2 made explicit as a github.com/looplab/fsm state machine rather
// than the implicit control flow of the Python coroutine — the teacher
// repo's application/fsm.go already used looplab/fsm for its own
// two-state start/stop lifecycle, so this extends that idiom to a
// four-state host lifecycle.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
	"github.com/242617/hasql/dsn"
	"github.com/242617/hasql/protocol"
	"github.com/242617/hasql/registry"
	"github.com/242617/hasql/stopwatch"
)

const (
	StateCreating = "creating"
	StateProbing  = "probing"
	StateClosing  = "closing"
	StateClosed   = "closed"

	eventCreated = "created"
	eventClose   = "close"
	eventClosed  = "closed"
)

// Sink receives role-transition notifications as a monitor observes
// them, so an optional notifier (e.g. events.Notifier) can publish
// externally without the monitor depending on it directly.
type Sink interface {
	PoolPromoted(dsn string, pool driver.Pool)
	PoolDemoted(dsn string, pool driver.Pool)
	PoolLost(dsn string, pool driver.Pool)
}

// NopSink discards every notification.
type NopSink struct{}

func (NopSink) PoolPromoted(string, driver.Pool) {}
func (NopSink) PoolDemoted(string, driver.Pool)  {}
func (NopSink) PoolLost(string, driver.Pool)     {}

// Config configures a single host Monitor.
type Config struct {
	DSN            dsn.DSN
	PoolOptions    driver.PoolOptions
	RefreshDelay   time.Duration
	RefreshTimeout time.Duration
	Logger         protocol.Logger
	Sink           Sink
}

// Monitor owns the lifecycle of exactly one host's pool.
type Monitor struct {
	cfg      Config
	adapter  driver.Adapter
	reg      *registry.Registry
	sw       *stopwatch.Stopwatch[driver.Pool]
	canonDSN string

	fsm *fsm.FSM

	poolMu sync.RWMutex
	pool   driver.Pool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Monitor for one host. It does not start probing until
// Run is called.
func New(cfg Config, adapter driver.Adapter, reg *registry.Registry, sw *stopwatch.Stopwatch[driver.Pool]) *Monitor {
	if cfg.Logger == nil {
		cfg.Logger = protocol.NopLogger{}
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}

	m := &Monitor{
		cfg:      cfg,
		adapter:  adapter,
		reg:      reg,
		sw:       sw,
		canonDSN: cfg.DSN.String(),
		done:     make(chan struct{}),
	}

	m.fsm = fsm.NewFSM(
		StateCreating,
		fsm.Events{
			{Name: eventCreated, Src: []string{StateCreating}, Dst: StateProbing},
			{Name: eventClose, Src: []string{StateCreating, StateProbing}, Dst: StateClosing},
			{Name: eventClosed, Src: []string{StateClosing}, Dst: StateClosed},
		},
		fsm.Callbacks{},
	)

	return m
}

// State returns the monitor's current lifecycle state.
func (m *Monitor) State() string {
	return m.fsm.Current()
}

// Pool returns the currently published pool, or nil before creation
// succeeds.
func (m *Monitor) Pool() driver.Pool {
	m.poolMu.RLock()
	defer m.poolMu.RUnlock()
	return m.pool
}

func (m *Monitor) setPool(pool driver.Pool) {
	m.poolMu.Lock()
	m.pool = pool
	m.poolMu.Unlock()
}

// Run drives the monitor's full lifecycle: create, then probe forever
// until ctx is canceled or Close is called. It returns once the monitor
// has reached the closed state.
func (m *Monitor) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	defer close(m.done)

	pool := m.waitCreatingPool(runCtx)
	if pool == nil {
		m.transitionClosed()
		return
	}

	m.setPool(pool)
	_ = m.fsm.Event(eventCreated)

	m.probingLoop(runCtx)
	m.transitionClosed()
}

// Close cancels the monitor's loop and blocks until it has exited.
func (m *Monitor) Close() {
	_ = m.fsm.Event(eventClose)
	if m.cancel != nil {
		m.cancel()
	}
	<-m.done
}

func (m *Monitor) transitionClosed() {
	if m.fsm.Current() != StateClosing {
		_ = m.fsm.Event(eventClose)
	}
	_ = m.fsm.Event(eventClosed)
}

// waitCreatingPool repeatedly calls CreatePool until it succeeds or ctx
// is canceled, mirroring _wait_creating_pool's "log and retry
// immediately" contract.
func (m *Monitor) waitCreatingPool(ctx context.Context) driver.Pool {
	opts := m.adapter.PrepareFactoryKwargs(m.cfg.PoolOptions)

	for {
		if ctx.Err() != nil {
			return nil
		}

		createCtx, cancel := context.WithTimeout(ctx, m.cfg.RefreshTimeout)
		pool, err := m.adapter.CreatePool(createCtx, m.canonDSN, opts)
		cancel()

		if err == nil {
			return pool
		}

		m.cfg.Logger.Warn(ctx, "creating pool failed",
			"dsn", m.cfg.DSN.Redacted(),
			"error", err,
		)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// probingLoop runs the creating→probing cycle described in spec.md
// §4.2 until ctx is canceled.
func (m *Monitor) probingLoop(ctx context.Context) {
	for ctx.Err() == nil {
		m.probeOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.RefreshDelay):
		}
	}
}

func (m *Monitor) probeOnce(ctx context.Context) {
	cycleID := uuid.New().String()
	censoredDSN := m.cfg.DSN.Redacted()
	defer m.reg.NotifyChecked(m.canonDSN)

	acquireCtx, cancel := context.WithTimeout(ctx, m.cfg.RefreshTimeout)
	conn, err := m.adapter.AcquireFromPool(acquireCtx, m.pool)
	cancel()
	if err != nil {
		m.cfg.Logger.Warn(ctx, "acquiring probe connection failed", "dsn", censoredDSN, "cycle", cycleID, "error", err)
		m.dropHost()
		return
	}
	defer func() {
		if err := m.adapter.ReleaseToPool(context.Background(), conn, m.pool); err != nil {
			m.cfg.Logger.Warn(ctx, "releasing probe connection failed", "dsn", censoredDSN, "cycle", cycleID, "error", err)
		}
	}()

	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.RefreshTimeout)
	defer cancel()

	stop := m.sw.Time(m.pool)
	isMaster, err := m.adapter.IsMaster(probeCtx, conn)
	stop()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		m.cfg.Logger.Warn(ctx, "role probe timed out", "dsn", censoredDSN, "cycle", cycleID)
		m.dropHost()
	case errors.Is(err, context.Canceled):
		if ctx.Err() != nil {
			// closing: let probingLoop exit on the next ctx.Err() check.
			return
		}
		m.cfg.Logger.Warn(ctx, "role probe canceled", "dsn", censoredDSN, "cycle", cycleID)
		m.dropHost()
	case err != nil:
		m.cfg.Logger.Warn(ctx, "role probe failed", "dsn", censoredDSN, "cycle", cycleID, "error", err)
		m.dropHost()
	case isMaster:
		m.promote()
	default:
		m.demote()
	}
}

func (m *Monitor) promote() {
	m.reg.AddMaster(m.pool, m.canonDSN)
	m.reg.RemoveReplica(m.pool)
	m.reg.MarkReady(m.canonDSN)
	m.cfg.Sink.PoolPromoted(m.cfg.DSN.Redacted(), m.pool)
}

func (m *Monitor) demote() {
	m.reg.AddReplica(m.pool, m.canonDSN)
	m.reg.RemoveMaster(m.pool)
	m.reg.MarkReady(m.canonDSN)
	m.cfg.Sink.PoolDemoted(m.cfg.DSN.Redacted(), m.pool)
}

func (m *Monitor) dropHost() {
	m.reg.RemoveMaster(m.pool)
	m.reg.RemoveReplica(m.pool)
	m.cfg.Sink.PoolLost(m.cfg.DSN.Redacted(), m.pool)
}
