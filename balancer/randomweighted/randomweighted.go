// Package randomweighted implements the balancer policy that derives
// per-pool weights from the last role-probe latency and picks a pool
// with a weighted draw, ported from
// original_source/hasql/balancer_policy/random_weighted.py.
//
// The normalization step is intentionally NOT the usual w_i/Σw: it
// divides the reflected sum by each reflected value (Σw/w_i), which
// does not yield a true probability distribution (the resulting values
// need not sum to 1). Every Σw/w_i is at least 1 while the uniform draw
// in weightedChoice is below 1, so the first prefix sum already covers
// the draw and GetPool returns the first candidate on every call; the
// latencies do not change which pool is picked. This is reproduced
// verbatim rather than fixed; see randomweighted_test.go for a pinned
// example of the exact numbers it produces.
package randomweighted

import (
	"context"
	"math/rand"

	"github.com/242617/hasql/balancer"
	"github.com/242617/hasql/driver"
)

// machineEpsilon keeps reflect from producing an exact zero weight for
// a pool whose time equals the whole sum (a lone candidate, the only
// pool with a nonzero time, or every time being zero).
const machineEpsilon = 1e-16

// Policy is the random-weighted balancer.Policy.
type Policy struct{}

// New creates a random-weighted Policy.
func New() *Policy {
	return &Policy{}
}

var _ balancer.Policy = (*Policy)(nil)

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

	weights := responseTimes(view, candidates)
	reflect(weights)
	normalize(weights)
	idx := weightedChoice(weights)
	return candidates[idx], nil
}

func responseTimes(view balancer.PoolView, pools []driver.Pool) []float64 {
	out := make([]float64, len(pools))
	for i, pool := range pools {
		if d, ok := view.LastResponseTime(pool); ok {
			out[i] = d.Seconds()
		}
	}
	return out
}

// reflect turns each time into (Σt - t_i + ε), so a pool with a smaller
// original time gets a larger reflected weight.
func reflect(times []float64) {
	var sum float64
	for _, t := range times {
		sum += t
	}
	for i, t := range times {
		times[i] = sum - t + machineEpsilon
	}
}

// normalize divides the sum of the reflected weights by each individual
// weight (Σw/w_i), not each weight by the sum. See the package doc
// comment: this is a deliberate, unfixed quirk.
func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	for i, w := range weights {
		if w == 0 {
			weights[i] = 0
			continue
		}
		weights[i] = sum / w
	}
}

func weightedChoice(distribution []float64) int {
	r := rand.Float64()
	var prefix float64
	for i, p := range distribution {
		prefix += p
		if r <= prefix {
			return i
		}
	}
	return len(distribution) - 1
}
