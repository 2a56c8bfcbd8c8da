// Package roundrobin implements the balancer policy that cycles through
// eligible pools in slot order, ported from
// original_source/hasql/balancer_policy/round_robin.py.
package roundrobin

import (
	"context"
	"sync"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
)

type poolOptions struct {
	readOnly              bool
	chooseMasterAsReplica bool
}

// Policy is the round-robin balancer.Policy. Unlike greedy and
// random-weighted it carries state: the next starting index per
// (readOnly, chooseMasterAsReplica) combination, exactly as the
// original's defaultdict(lambda: 0) indexed by the same tuple.
type Policy struct {
	mu      sync.Mutex
	indexes map[poolOptions]int
}

// New creates a round-robin Policy.
func New() *Policy {
	return &Policy{indexes: make(map[poolOptions]int)}
}

var _ balancer.Policy = (*Policy)(nil)

func (p *Policy) GetPool(ctx context.Context, view balancer.PoolView, opts balancer.ResolvedOptions) (driver.Pool, error) {
	readOnly := opts.ReadOnly
	chooseMasterAsReplica := opts.ChooseMasterAsReplica

	if readOnly {
		if view.ReplicaPoolCount() == 0 {
			if opts.FallbackMaster {
				readOnly = false
				chooseMasterAsReplica = false
				if view.MasterPoolCount() == 0 {
					if err := view.WaitMastersReady(ctx, 1); err != nil {
						return nil, err
					}
				}
			} else if err := view.WaitReplicasReady(ctx, 1); err != nil {
				return nil, err
			}
		}
	} else if view.MasterPoolCount() == 0 {
		if err := view.WaitMastersReady(ctx, 1); err != nil {
			return nil, err
		}
	}

	key := poolOptions{readOnly: readOnly, chooseMasterAsReplica: chooseMasterAsReplica}

	predicate := func(pool driver.Pool) bool {
		switch {
		case key.chooseMasterAsReplica:
			return view.PoolIsMaster(pool) || view.PoolIsReplica(pool)
		case key.readOnly:
			return view.PoolIsReplica(pool)
		default:
			return view.PoolIsMaster(pool)
		}
	}

	pools := view.Pools()
	if len(pools) == 0 {
		return nil, balancer.ErrNoCandidates
	}

	p.mu.Lock()
	start := p.indexes[key]
	p.mu.Unlock()

	for offset := 0; offset < len(pools); offset++ {
		index := (start + offset) % len(pools)
		candidate := pools[index]
		if candidate != nil && predicate(candidate) {
			p.mu.Lock()
			p.indexes[key] = (index + 1) % len(pools)
			p.mu.Unlock()
			return candidate, nil
		}
	}

	return nil, balancer.ErrNoCandidates
}
