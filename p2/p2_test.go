package p2

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/spsforks/primecount-p2/prime"
)

// countP2Naive computes P2(x, y) directly from its definition: the count of
// n <= x with n = p*q, p <= q both prime, p > y. It shares only the prime
// sieve with Compute, so it catches bugs the closed-form reference values
// would not.
func countP2Naive(x, y int64) int64 {
	primes := prime.GeneratePrimes(x+1, false, nil)
	var count int64
	for i, p := range primes {
		if p <= y {
			continue
		}
		if p*p > x {
			break
		}
		for j := i; j < len(primes); j++ {
			q := primes[j]
			if p*q > x {
				break
			}
			count++
		}
	}
	return count
}

// TestComputeMatchesNaiveDefinition checks Compute against the reference
// identity directly, rather than against a fixed table: P2(x, y) is
// sum (pi(floor(x/p)) - pi(p) + 1) over primes p in (y, sqrt(x)], computed
// here by pair enumeration that shares only the prime sieve with Compute.
func TestComputeMatchesNaiveDefinition(t *testing.T) {
	tests := []struct{ x, y int64 }{
		{10, 0}, {10, 2}, {100, 3}, {1000, 10}, {5000, 17}, {20000, 30},
	}
	for _, tt := range tests {
		want := countP2Naive(tt.x, tt.y)
		got := Compute(tt.x, tt.y, 1, nil)
		if got != want {
			t.Errorf("Compute(%d, %d) = %d, naive = %d", tt.x, tt.y, got, want)
		}
	}
}

func TestComputeThreadCountIndependence(t *testing.T) {
	x, y := int64(200000), int64(50)
	want := Compute(x, y, 1, nil)
	for _, threads := range []int{2, 3, 8, 16} {
		if got := Compute(x, y, threads, nil); got != want {
			t.Errorf("Compute(%d, %d, %d) = %d, want %d (threads=1)", x, y, threads, got, want)
		}
	}
}

func TestComputeBelowFourIsZero(t *testing.T) {
	for _, x := range []int64{-5, 0, 1, 2, 3} {
		if got := Compute(x, 0, 4, nil); got != 0 {
			t.Errorf("Compute(%d, 0, 4) = %d, want 0", x, got)
		}
	}
}

func TestComputeAGreaterEqualBIsZero(t *testing.T) {
	// y = sqrt(x) forces a == b (pi(y) == pi(sqrt(x)) since y IS sqrt(x)).
	x := int64(10000)
	y := int64(100)
	if got := Compute(x, y, 2, nil); got != 0 {
		t.Errorf("Compute(%d, %d, 2) = %d, want 0 (a >= b)", x, y, got)
	}
}

func TestComputeMonotonicInX(t *testing.T) {
	y := int64(20)
	prev := Compute(1000, y, 2, nil)
	for _, x := range []int64{2000, 5000, 10000, 50000} {
		cur := Compute(x, y, 2, nil)
		if cur < prev {
			t.Errorf("Compute(%d, %d) = %d < Compute(smaller x) = %d: not monotonic", x, y, cur, prev)
		}
		prev = cur
	}
}

func TestComputeProgressCallback(t *testing.T) {
	var calls int
	var lastLow, lastZ int64
	opts := &Options{Progress: func(low, z int64) {
		calls++
		lastLow, lastZ = low, z
	}}
	Compute(2000000, 50, 2, opts)
	if calls == 0 {
		t.Fatal("expected Progress to be called at least once")
	}
	if lastLow < lastZ {
		t.Errorf("final progress call low=%d < z=%d, expected the loop to have reached z", lastLow, lastZ)
	}
}

func TestComputeBigMatchesCompute(t *testing.T) {
	tests := []struct{ x, y int64 }{
		{10, 2}, {1000, 10}, {10000, 25},
	}
	for _, tt := range tests {
		want := Compute(tt.x, tt.y, 2, nil)
		got := ComputeBig(big.NewInt(tt.x), tt.y, 2, nil)
		if got.Cmp(big.NewInt(want)) != 0 {
			t.Errorf("ComputeBig(%d, %d) = %s, want %d", tt.x, tt.y, got.String(), want)
		}
	}
}

func TestComputeDistributedSingleRankMatchesCompute(t *testing.T) {
	x, y := int64(100000), int64(40)
	want := Compute(x, y, 2, nil)
	got, err := ComputeDistributed(context.Background(), x, y, 2, SingleRank{}, nil)
	if err != nil {
		t.Fatalf("ComputeDistributed: %v", err)
	}
	if got != want {
		t.Errorf("ComputeDistributed(single rank) = %d, want %d", got, want)
	}
}

func TestComputeDistributedMultiRankMatchesCompute(t *testing.T) {
	x, y := int64(300000), int64(60)
	want := Compute(x, y, 2, nil)

	for _, ranks := range []int{2, 3, 5} {
		group := NewLocalGroup(ranks)
		results := make([]int64, ranks)
		errs := make([]error, ranks)

		var wg sync.WaitGroup
		for r := 0; r < ranks; r++ {
			r := r
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[r], errs[r] = ComputeDistributed(context.Background(), x, y, 2, group.For(r), nil)
			}()
		}
		wg.Wait()

		for r := 0; r < ranks; r++ {
			if errs[r] != nil {
				t.Fatalf("rank %d: %v", r, errs[r])
			}
			if results[r] != want {
				t.Errorf("ranks=%d rank %d: ComputeDistributed = %d, want %d", ranks, r, results[r], want)
			}
		}
	}
}
