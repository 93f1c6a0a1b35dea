// Package pi implements pi_simple, the external pi(n) oracle the P2
// orchestrator consumes only to seed a = pi(y) and b = pi(floor(sqrt(x))).
// It is deliberately not a combinatorial pi(x) engine: for the bounds P2
// actually needs it, direct sieving is simpler and exactly as correct.
package pi

import "github.com/spsforks/primecount-p2/prime"

// Simple returns the count of primes <= n, sieving in parallel across
// threads when n is large enough for that to pay off.
//
// It must use the same sieve substrate as the forward/reverse cursors in
// package primeiter, so a and b are consistent with the p <= y convention
// the worker's window boundaries rely on.
func Simple(n int64, threads int) int64 {
	if n < 2 {
		return 0
	}
	limit := n + 1
	if threads > 1 && limit >= prime.ParallelThreshold {
		return int64(len(prime.ParallelSegmentedSieve(limit, threads, prime.DefaultSegmentSize, nil)))
	}
	return int64(len(prime.GeneratePrimes(limit, false, nil)))
}
