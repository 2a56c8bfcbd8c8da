// Package greedy implements the balancer policy that always picks the
// pool(s) with the most free connections, ported from
// original_source/hasql/balancer_policy/greedy.py.
package greedy

import (
	"context"
	"math/rand"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
)

// Policy is the greedy balancer.Policy.
type Policy struct{}

// New creates a greedy Policy.
func New() *Policy {
	return &Policy{}
}

var _ balancer.Policy = (*Policy)(nil)

// GetPool gathers every eligible candidate, finds the maximum free size
// among them, and returns a uniformly random pick among the candidates
// tied for that maximum.
func (p *Policy) GetPool(ctx context.Context, view balancer.PoolView, opts balancer.ResolvedOptions) (driver.Pool, error) {
	var candidates []driver.Pool

	if opts.ReadOnly {
		replicas, err := view.ReplicaPools(ctx, opts.FallbackMaster)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, replicas...)
	}

	if !opts.ReadOnly || (opts.ChooseMasterAsReplica && view.MasterPoolCount() > 0) {
		masters, err := view.MasterPools(ctx)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, masters...)
	}

	if len(candidates) == 0 {
		return nil, balancer.ErrNoCandidates
	}

	maxFree := view.PoolFreeSize(candidates[0])
	for _, c := range candidates[1:] {
		if fs := view.PoolFreeSize(c); fs > maxFree {
			maxFree = fs
		}
	}

	var tied []driver.Pool
	for _, c := range candidates {
		if view.PoolFreeSize(c) == maxFree {
			tied = append(tied, c)
		}
	}

	return tied[rand.Intn(len(tied))], nil
}
