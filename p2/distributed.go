package p2

import (
	"context"
	"sync"
)

// SingleRank is the trivial Group: one rank, nothing to reduce. Passed to
// ComputeDistributed it yields the same result as Compute, which itself
// calls runShard directly and does not go through a Group.
type SingleRank struct{}

func (SingleRank) Size() int { return 1 }
func (SingleRank) Rank() int { return 0 }

func (SingleRank) Reduce(_ context.Context, local int64) (int64, error) {
	return local, nil
}

// LocalGroup simulates a multi-rank Group across goroutines in a single
// process, for testing ComputeDistributed's shard partitioning and
// reduction without standing up real cluster transport. Every member
// shares one *LocalGroup built by NewLocalGroup; each member's view of it
// is obtained via For, which fixes that member's rank.
type LocalGroup struct {
	size int

	mu       sync.Mutex
	cond     *sync.Cond
	round    int
	arrived  int
	partials []int64
}

// NewLocalGroup creates a barrier-reduction group for size members.
func NewLocalGroup(size int) *LocalGroup {
	if size < 1 {
		size = 1
	}
	g := &LocalGroup{size: size, partials: make([]int64, size)}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// For returns this rank's view of the group: the same underlying barrier,
// scoped to a fixed rank index.
func (g *LocalGroup) For(rank int) Group {
	return &localRank{group: g, rank: rank}
}

type localRank struct {
	group *LocalGroup
	rank  int
}

func (r *localRank) Size() int { return r.group.size }
func (r *localRank) Rank() int { return r.rank }

// Reduce blocks until every rank in the group has called Reduce for the
// current round, sums every rank's local value, and returns that sum to
// all of them. It is safe to call once per rank per round; calling it a
// second time before every other rank has observed the prior round's
// result is a misuse this type does not guard against.
func (r *localRank) Reduce(ctx context.Context, local int64) (int64, error) {
	g := r.group
	g.mu.Lock()
	myRound := g.round
	g.partials[r.rank] = local
	g.arrived++

	if g.arrived == g.size {
		g.arrived = 0
		g.round++
		g.cond.Broadcast()
	} else {
		for g.round == myRound {
			g.cond.Wait()
			if err := ctx.Err(); err != nil {
				g.mu.Unlock()
				return 0, err
			}
		}
	}

	var sum int64
	for _, p := range g.partials {
		sum += p
	}
	g.mu.Unlock()
	return sum, nil
}
