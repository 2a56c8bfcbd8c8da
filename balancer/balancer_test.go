package balancer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
)

// fakeView is a minimal balancer.PoolView for testing concrete policies
// without a real registry.
type fakeView struct {
	masters    []driver.Pool
	replicas   []driver.Pool
	all        []driver.Pool
	freeSize   map[driver.Pool]int
	respTime   map[driver.Pool]time.Duration
	isMasterOf map[driver.Pool]bool
}

func newFakeView() *fakeView {
	return &fakeView{
		freeSize:   make(map[driver.Pool]int),
		respTime:   make(map[driver.Pool]time.Duration),
		isMasterOf: make(map[driver.Pool]bool),
	}
}

func (f *fakeView) MasterPools(ctx context.Context) ([]driver.Pool, error) { return f.masters, nil }

func (f *fakeView) ReplicaPools(ctx context.Context, fallbackMaster bool) ([]driver.Pool, error) {
	if len(f.replicas) == 0 && fallbackMaster {
		return f.masters, nil
	}
	return f.replicas, nil
}

func (f *fakeView) MasterPoolCount() int  { return len(f.masters) }
func (f *fakeView) ReplicaPoolCount() int { return len(f.replicas) }

func (f *fakeView) PoolFreeSize(pool driver.Pool) int { return f.freeSize[pool] }

func (f *fakeView) LastResponseTime(pool driver.Pool) (time.Duration, bool) {
	d, ok := f.respTime[pool]
	return d, ok
}

func (f *fakeView) PoolIsMaster(pool driver.Pool) bool {
	for _, p := range f.masters {
		if p == pool {
			return true
		}
	}
	return false
}

func (f *fakeView) PoolIsReplica(pool driver.Pool) bool {
	for _, p := range f.replicas {
		if p == pool {
			return true
		}
	}
	return false
}

func (f *fakeView) Pools() []driver.Pool { return f.all }

func (f *fakeView) WaitMastersReady(ctx context.Context, n int) error  { return nil }
func (f *fakeView) WaitReplicasReady(ctx context.Context, n int) error { return nil }

type recordingPolicy struct {
	lastOpts balancer.ResolvedOptions
	pool     driver.Pool
}

func (p *recordingPolicy) GetPool(ctx context.Context, view balancer.PoolView, opts balancer.ResolvedOptions) (driver.Pool, error) {
	p.lastOpts = opts
	return p.pool, nil
}

func TestGetPoolWithoutWeightNeverChoosesMasterAsReplica(t *testing.T) {
	pool := new(int)
	policy := &recordingPolicy{pool: pool}
	view := newFakeView()

	got, err := balancer.GetPool(context.Background(), policy, view, balancer.Options{ReadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, pool, got)
	assert.False(t, policy.lastOpts.ChooseMasterAsReplica)
}

func TestGetPoolWithWeightOneAlwaysChoosesMasterAsReplica(t *testing.T) {
	pool := new(int)
	policy := &recordingPolicy{pool: pool}
	view := newFakeView()
	weight := 1.0

	_, err := balancer.GetPool(context.Background(), policy, view, balancer.Options{
		ReadOnly:              true,
		MasterAsReplicaWeight: &weight,
	})
	require.NoError(t, err)
	assert.True(t, policy.lastOpts.ChooseMasterAsReplica)
	assert.True(t, policy.lastOpts.FallbackMaster)
}
