// Package balancer selects a pool to serve a given acquire request.
// Concrete policies (greedy, randomweighted, roundrobin) are ports of
// the original hasql balancer_policy package
// (original_source/hasql/balancer_policy/*.py). They depend only on the
// PoolView capability interface defined here, not on the concrete
// poolmanager.Manager type, since the original Python classes held a
// live reference to their pool manager and poolmanager.Manager in turn
// must hold a Policy — PoolView breaks that cycle on the Go side.
package balancer

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/242617/hasql/driver"
)

// PoolView is the read-only view of a pool manager's live state that a
// balancer policy needs to pick a pool. poolmanager.Manager implements
// it.
type PoolView interface {
	// MasterPools returns a snapshot of the current master pool set; if
	// it is currently empty, it blocks until at least one master exists
	// or ctx is done.
	MasterPools(ctx context.Context) ([]driver.Pool, error)
	// ReplicaPools returns a snapshot of the current replica pool set; if
	// it is currently empty, it returns MasterPools when fallbackMaster
	// is set, and otherwise blocks until at least one replica exists or
	// ctx is done.
	ReplicaPools(ctx context.Context, fallbackMaster bool) ([]driver.Pool, error)
	// MasterPoolCount and ReplicaPoolCount report current set sizes
	// without blocking.
	MasterPoolCount() int
	ReplicaPoolCount() int
	// PoolFreeSize returns the number of idle connections in pool.
	PoolFreeSize(pool driver.Pool) int
	// LastResponseTime returns the median of the recent role-probe
	// durations for pool, if any were measured.
	LastResponseTime(pool driver.Pool) (time.Duration, bool)
	// PoolIsMaster and PoolIsReplica classify pool.
	PoolIsMaster(pool driver.Pool) bool
	PoolIsReplica(pool driver.Pool) bool
	// Pools returns every configured pool slot in DSN order, with a nil
	// entry wherever a pool has not been created yet.
	Pools() []driver.Pool
	// WaitMastersReady and WaitReplicasReady block until at least n pools
	// of the given role exist, or ctx is done.
	WaitMastersReady(ctx context.Context, n int) error
	WaitReplicasReady(ctx context.Context, n int) error
}

// Options configures a single GetPool call.
type Options struct {
	ReadOnly              bool
	FallbackMaster        bool
	MasterAsReplicaWeight *float64
}

// ResolvedOptions carries the already-decided choose_master_as_replica
// flag into a policy, matching the original BaseBalancerPolicy.get_pool
// / _get_pool split.
type ResolvedOptions struct {
	ReadOnly              bool
	FallbackMaster        bool
	ChooseMasterAsReplica bool
}

// Policy is implemented by a concrete balancer strategy.
type Policy interface {
	GetPool(ctx context.Context, view PoolView, opts ResolvedOptions) (driver.Pool, error)
}

// GetPool rejects a MasterAsReplicaWeight set on a non-read-only request
// or outside [0, 1], resolves the master-as-replica coin flip shared by
// every policy, and then delegates to policy, mirroring
// BaseBalancerPolicy.get_pool.
func GetPool(ctx context.Context, policy Policy, view PoolView, opts Options) (driver.Pool, error) {
	chooseMasterAsReplica := false
	if opts.MasterAsReplicaWeight != nil {
		if !opts.ReadOnly {
			return nil, errors.New("balancer: master_as_replica_weight is only valid for read-only requests")
		}
		if w := *opts.MasterAsReplicaWeight; w < 0 || w > 1 {
			return nil, errors.New("balancer: master_as_replica_weight must be in [0, 1]")
		}
		r := rand.Float64()
		chooseMasterAsReplica = r > 0 && r <= *opts.MasterAsReplicaWeight
	}

	return policy.GetPool(ctx, view, ResolvedOptions{
		ReadOnly:              opts.ReadOnly,
		FallbackMaster:        opts.FallbackMaster || chooseMasterAsReplica,
		ChooseMasterAsReplica: chooseMasterAsReplica,
	})
}
