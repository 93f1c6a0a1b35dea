// Package p2 evaluates the second partial sieve function
//
//	P2(x, y) = |{n <= x : n = p*q, p, q prime, p <= q, p > y}|
//
// via the two-level parallel decomposition described alongside it: an
// intra-rank worker pool processing windows of the outer prime index with
// a barrier per round, and an optional static partition of the same index
// space across cluster ranks with a single collective reduction at the end.
package p2

import (
	"context"
	"math"
	"math/big"

	"github.com/spsforks/primecount-p2/intmath"
	"github.com/spsforks/primecount-p2/pi"
)

// Options carries the ambient concerns that don't affect the result:
// currently only progress reporting. A nil *Options is equivalent
// to &Options{}.
type Options struct {
	// Progress, if non-nil, is called after every round with the low/z
	// ratio of the (single- or multi-rank) shard currently being computed.
	// It is invoked only by the rank driving that shard; in distributed
	// mode, wiring it only on rank 0 is the caller's responsibility.
	Progress func(low, z int64)
}

func (o *Options) onRound() func(low, z int64) {
	if o == nil || o.Progress == nil {
		return nil
	}
	return o.Progress
}

// Compute evaluates P2(x, y) using up to threads workers per round, within
// a single rank. The result does not depend on threads: every valid thread
// count over the same (x, y) returns the same value.
func Compute(x, y int64, threads int, opts *Options) int64 {
	if x < 4 {
		return 0
	}
	if y < 0 {
		y = 0
	}
	if threads < 1 {
		threads = 1
	}

	sqrtX := intmath.Isqrt(x)
	a := pi.Simple(y, threads)
	b := pi.Simple(sqrtX, threads)
	if a >= b {
		return 0
	}

	denom := y
	if denom < 1 {
		denom = 1
	}
	z := x / denom

	sum := combinatorialTerm(a, b)
	sum += runShard(shardParams{
		div:       func(d int64) int64 { return x / d },
		y:         y,
		z:         z,
		sqrtX:     sqrtX,
		low:       2,
		shardHigh: z,
		threads:   threads,
		pixLow:    0,
		onRound:   opts.onRound(),
	})
	return sum
}

// ComputeBig is the 128-bit-accumulator path for x beyond int64 range.
// Every index-side quantity (a, b, z, low, thread_distance, and every xp
// handed to the prime cursors) still fits int64 once bounded by z, exactly
// as the kernel's preconditions require; only x and the running sum need
// the wider type.
func ComputeBig(x *big.Int, y int64, threads int, opts *Options) *big.Int {
	sum := new(big.Int)
	if x.Cmp(big.NewInt(4)) < 0 {
		return sum
	}
	if y < 0 {
		y = 0
	}
	if threads < 1 {
		threads = 1
	}

	sqrtXBig := new(big.Int).Sqrt(x)
	if !sqrtXBig.IsInt64() {
		panic("p2: sqrt(x) exceeds int64 range; the pi_simple oracle cannot evaluate b for x this large")
	}
	sqrtX := sqrtXBig.Int64()

	a := pi.Simple(y, threads)
	b := pi.Simple(sqrtX, threads)
	if a >= b {
		return sum
	}

	denom := int64(1)
	if y > 1 {
		denom = y
	}
	zBig := new(big.Int).Div(x, big.NewInt(denom))
	if !zBig.IsInt64() {
		panic("p2: z = floor(x/max(y,1)) exceeds int64 range; z is defined as a 64-bit quantity")
	}
	z := zBig.Int64()

	sum.Add(sum, big.NewInt(combinatorialTerm(a, b)))
	shardSum := runShard(shardParams{
		div:       func(d int64) int64 { return bigDivInt64(x, d) },
		y:         y,
		z:         z,
		sqrtX:     sqrtX,
		low:       2,
		shardHigh: z,
		threads:   threads,
		pixLow:    0,
		onRound:   opts.onRound(),
	})
	sum.Add(sum, big.NewInt(shardSum))
	return sum
}

func bigDivInt64(x *big.Int, d int64) int64 {
	q := new(big.Int).Div(x, big.NewInt(d))
	if !q.IsInt64() {
		return math.MaxInt64
	}
	return q.Int64()
}

// Group abstracts the collective the orchestrator needs in distributed
// mode: how many ranks there are, which one this process is, and how to
// combine every rank's partial sum into one value every rank observes.
// There is no cross-rank messaging during compute, only this single
// sum-reduction at shard completion (§4.4); a stuck rank means a stuck job,
// so implementations should not retry internally.
type Group interface {
	Size() int
	Rank() int
	Reduce(ctx context.Context, local int64) (int64, error)
}

// ComputeDistributed evaluates P2(x, y) with the outer index space
// [2, z) statically partitioned into group.Size() contiguous shards of
// equal length (the last shard absorbing the remainder), one per rank.
// Every rank returns the same final value. Progress, if set, should only
// be attached by the caller on rank 0.
func ComputeDistributed(ctx context.Context, x, y int64, threads int, group Group, opts *Options) (int64, error) {
	if x < 4 {
		return 0, nil
	}
	if y < 0 {
		y = 0
	}
	if threads < 1 {
		threads = 1
	}

	sqrtX := intmath.Isqrt(x)
	a := pi.Simple(y, threads)
	b := pi.Simple(sqrtX, threads)
	if a >= b {
		return 0, nil
	}

	denom := y
	if denom < 1 {
		denom = 1
	}
	z := x / denom

	size := int64(group.Size())
	rank := int64(group.Rank())
	shardLen := (z - 2) / size
	shardLow := 2 + rank*shardLen
	shardHigh := shardLow + shardLen
	if rank == size-1 {
		shardHigh = z
	}

	pixLowSeed := int64(0)
	if shardLow > 2 {
		pixLowSeed = pi.Simple(shardLow-1, threads)
	}

	local := runShard(shardParams{
		div:       func(d int64) int64 { return x / d },
		y:         y,
		z:         z,
		sqrtX:     sqrtX,
		low:       shardLow,
		shardHigh: shardHigh,
		threads:   threads,
		pixLow:    pixLowSeed,
		onRound:   opts.onRound(),
	})
	if group.Rank() == 0 {
		local += combinatorialTerm(a, b)
	}

	return group.Reduce(ctx, local)
}
