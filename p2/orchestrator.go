package p2

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spsforks/primecount-p2/intmath"
)

// minDistance is the floor thread_distance is clamped to. It exists to
// keep per-round scheduling overhead negligible relative to the work a
// round does; below it, rebalancing would dominate on small inputs.
const minDistance int64 = 1 << 23

// rebalanceTarget is the wall-clock duration (seconds) the adaptive stride
// controller aims to keep each round near.
const rebalanceTarget = 60.0

// shardParams carries everything runShard needs to evaluate one shard
// (the whole [2, z) range in single-rank mode, or one rank's slice of it
// in distributed mode) of the round loop described in §4.4.
type shardParams struct {
	div       func(d int64) int64
	y         int64
	z         int64
	sqrtX     int64
	low       int64
	shardHigh int64
	threads   int
	pixLow    int64
	onRound   func(low, z int64)
}

// runShard executes the round loop from p.low up to p.shardHigh and returns
// the sum contributed by that range, excluding the closed-form C(a,b) term
// (the caller adds that once, globally). pixLow seeds the prefix correction
// the serial stitch applies each round; in single-rank mode it starts at 0,
// in distributed mode it starts at pi(shardStart-1).
func runShard(p shardParams) int64 {
	var sum int64
	low := p.low
	pixLow := p.pixLow
	threadDistance := minDistance

	for low < p.shardHigh {
		remaining := p.shardHigh - low
		maxThreads := intmath.CeilDiv(remaining, threadDistance)
		activeThreads := int64(p.threads)
		if activeThreads > maxThreads {
			activeThreads = maxThreads
		}
		if activeThreads < 1 {
			activeThreads = 1
		}

		slots := make([]workerSlot, activeThreads)
		t0 := time.Now()

		g, _ := errgroup.WithContext(context.Background())
		for i := int64(0); i < activeThreads; i++ {
			i := i
			g.Go(func() error {
				s, pix, count := runWorker(workerInput{
					div:            p.div,
					y:              p.y,
					z:              p.shardHigh,
					low:            low,
					threadNum:      i,
					threadDistance: threadDistance,
					sqrtX:          p.sqrtX,
				})
				slots[i] = workerSlot{partialSum: s, pix: pix, pixCount: count}
				return nil
			})
		}
		_ = g.Wait() // runWorker never returns an error

		for i := range slots {
			sum += slots[i].partialSum
		}

		low += threadDistance * activeThreads
		threadDistance = rebalance(threadDistance, time.Since(t0).Seconds(), p.shardHigh-low, activeThreads)

		// Serial stitch, strict ascending worker order: each worker's
		// pi(xp) terms were computed relative to its own window's
		// my_low, not the true prefix count. pixLow restores the
		// missing pi(my_low-1) term, and telescopes exactly because
		// windows tile [2, z) contiguously.
		for i := int64(0); i < activeThreads; i++ {
			sum += pixLow * slots[i].pixCount
			pixLow += slots[i].pix
		}

		if p.onRound != nil {
			p.onRound(low, p.shardHigh)
		}
	}

	return sum
}

// rebalance is the proportional stride controller from §9: it only tries to
// keep round duration near rebalanceTarget seconds, clamped to
// [minDistance, ceil(remaining/threads)].
func rebalance(current int64, elapsedSeconds float64, remaining, threads int64) int64 {
	next := current
	switch {
	case elapsedSeconds < rebalanceTarget:
		next *= 2
	case elapsedSeconds > rebalanceTarget:
		next /= 2
	}
	if next < minDistance {
		next = minDistance
	}
	if remaining > 0 && threads > 0 {
		if upper := intmath.CeilDiv(remaining, threads); next > upper {
			next = upper
		}
	}
	return next
}

// combinatorialTerm computes C(a,b) = [(a-2)(a+1) - (b-2)(b+1)] / 2, the
// closed form of sum_{i=a+1}^{b} (1-i): the index-offset correction that,
// added to sum pi(floor(x/p_i)) over the same range, turns it into
// sum (pi(floor(x/p_i)) - pi(p_i) + 1).
func combinatorialTerm(a, b int64) int64 {
	termA := (a - 2) * (a + 1)
	termB := (b - 2) * (b + 1)
	return (termA - termB) / 2
}
