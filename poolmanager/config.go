package poolmanager

import (
	"time"

	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
)

// Default timeouts and sizes, matching original_source/hasql/base.py's
// DEFAULT_* module constants.
const (
	DefaultAcquireTimeout        = time.Second
	DefaultRefreshDelay          = time.Second
	DefaultRefreshTimeout        = 30 * time.Second
	DefaultMasterAsReplicaWeight = 0.0
	DefaultStopwatchWindowSize   = 128
)

// Config configures a Manager.
type Config struct {
	// DSN is the raw, possibly multi-host connection string.
	DSN string `yaml:"dsn"`

	AcquireTimeout        time.Duration      `yaml:"acquire_timeout" default:"1s"`
	RefreshDelay          time.Duration      `yaml:"refresh_delay" default:"1s"`
	RefreshTimeout        time.Duration      `yaml:"refresh_timeout" default:"30s"`
	FallbackMaster        bool               `yaml:"fallback_master"`
	MasterAsReplicaWeight float64            `yaml:"master_as_replica_weight"`
	StopwatchWindowSize   int                `yaml:"stopwatch_window_size" default:"128"`
	PoolOptions           driver.PoolOptions `yaml:"pool_options"`
}

// Validate checks cfg's invariants: a non-empty DSN, positive timeouts,
// and a weight within [0,1].
func (cfg Config) Validate() error {
	switch {
	case cfg.DSN == "":
		return errors.New("dsn is required")
	case cfg.AcquireTimeout <= 0:
		return errors.New("acquire_timeout must be positive")
	case cfg.RefreshDelay <= 0:
		return errors.New("refresh_delay must be positive")
	case cfg.RefreshTimeout <= 0:
		return errors.New("refresh_timeout must be positive")
	case cfg.MasterAsReplicaWeight < 0 || cfg.MasterAsReplicaWeight > 1:
		return errors.New("master_as_replica_weight must be in [0, 1]")
	}
	return nil
}

func (cfg Config) withDefaults() Config {
	if cfg.AcquireTimeout == 0 {
		cfg.AcquireTimeout = DefaultAcquireTimeout
	}
	if cfg.RefreshDelay == 0 {
		cfg.RefreshDelay = DefaultRefreshDelay
	}
	if cfg.RefreshTimeout == 0 {
		cfg.RefreshTimeout = DefaultRefreshTimeout
	}
	if cfg.StopwatchWindowSize == 0 {
		cfg.StopwatchWindowSize = DefaultStopwatchWindowSize
	}
	return cfg
}
