package poolmanager

import (
	"github.com/pkg/errors"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/balancer/greedy"
	"github.com/242617/hasql/driver"
	"github.com/242617/hasql/monitor"
	"github.com/242617/hasql/protocol"
)

// Option modifies a Manager at construction time, the same pattern
// pgrepo.DB uses (Option func(*DB) error).
type Option func(*Manager) error

// defaults returns the options applied before the caller's own, so any
// explicit option can override them.
func defaults() []Option {
	return []Option{
		WithLogger(protocol.NopLogger{}),
		WithBalancerPolicy(greedy.New()),
		WithSink(monitor.NopSink{}),
	}
}

// WithConfig sets the manager's Config, validating it.
func WithConfig(cfg Config) Option {
	return func(m *Manager) error {
		cfg = cfg.withDefaults()
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid config")
		}
		m.cfg = cfg
		return nil
	}
}

// WithAdapter sets the driver adapter the manager creates pools with.
// Required; New fails without one.
func WithAdapter(adapter driver.Adapter) Option {
	return func(m *Manager) error {
		if adapter == nil {
			return errors.New("adapter cannot be nil")
		}
		m.adapter = adapter
		return nil
	}
}

// WithBalancerPolicy overrides the default greedy balancer policy.
func WithBalancerPolicy(policy balancer.Policy) Option {
	return func(m *Manager) error {
		if policy == nil {
			return errors.New("balancer policy cannot be nil")
		}
		m.policy = policy
		return nil
	}
}

// WithLogger overrides the manager's logger.
func WithLogger(log protocol.Logger) Option {
	return func(m *Manager) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		m.log = log
		return nil
	}
}

// WithSink registers an observer notified of every role transition a
// monitor detects, e.g. events.Notifier.
func WithSink(sink monitor.Sink) Option {
	return func(m *Manager) error {
		if sink == nil {
			return errors.New("sink cannot be nil")
		}
		m.sink = sink
		return nil
	}
}
