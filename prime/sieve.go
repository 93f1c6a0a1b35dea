// Package prime provides segmented sieve-of-Eratosthenes prime generation.
//
// It is the substrate the rest of this module builds on: the forward/reverse
// prime cursors in package primeiter page through it on demand, and the
// pi(n) oracle in package pi counts directly off its output. Nothing in
// this package knows about P2, windows, or workers - it only produces primes.
package prime

import (
	"bytes"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	DefaultSegmentSize int64 = 1_000_000
	ParallelThreshold  int64 = 100_000_000
)

// sieveSegmentOddOnly processes a single segment using an odd-only sieve.
// Shared helper used by both sequential and parallel segmented sieves.
//
// low/high define the segment range [low, high).
// basePrimes are odd primes up to sqrt(high) (excludes 2).
// isPrime is a reusable buffer (at least (high-low+1)/2 bytes).
// Returns primes found in [max(low,2), high).
func sieveSegmentOddOnly(low, high int64, basePrimes []int64, isPrime []byte) []int64 {
	var primes []int64

	if low <= 2 && high > 2 {
		primes = append(primes, 2)
	}

	oddLow := low
	if oddLow < 3 {
		oddLow = 3
	}
	if oddLow%2 == 0 {
		oddLow++
	}
	if oddLow >= high {
		return primes
	}

	segLen := (high - oddLow + 1) / 2
	if segLen <= 0 {
		return primes
	}

	for i := int64(0); i < segLen; i++ {
		isPrime[i] = 1
	}

	for _, p := range basePrimes {
		start := ((low + p - 1) / p) * p
		if start < p*p {
			start = p * p
		}
		if start%2 == 0 {
			start += p
		}
		if start >= high {
			continue
		}

		adjustedStart := (start - oddLow) / 2
		step := p
		for j := adjustedStart; j < segLen; j += step {
			isPrime[j] = 0
		}
	}

	data := isPrime[:segLen]
	idx := int64(0)
	for {
		pos := bytes.IndexByte(data[idx:], 1)
		if pos == -1 {
			break
		}
		idx += int64(pos)
		primes = append(primes, oddLow+2*idx)
		idx++
		if idx >= segLen {
			break
		}
	}

	return primes
}

// SieveOfEratosthenes returns every prime strictly less than n.
func SieveOfEratosthenes(n int64) []int64 {
	if n <= 2 {
		return nil
	}
	if n <= 3 {
		return []int64{2}
	}

	sieveSize := (n - 3 + 1) / 2
	sieve := make([]byte, sieveSize)
	for i := range sieve {
		sieve[i] = 1
	}

	limit := isqrtFloat(n)
	for current := int64(3); current <= limit; current += 2 {
		idx := (current - 3) / 2
		if sieve[idx] == 1 {
			startIdx := (current*current - 3) / 2
			step := current
			for j := startIdx; j < sieveSize; j += step {
				sieve[j] = 0
			}
		}
	}

	estimated := estimatePrimeCount(n)
	primes := make([]int64, 0, estimated)
	primes = append(primes, 2)

	idx := int64(0)
	for {
		pos := bytes.IndexByte(sieve[idx:], 1)
		if pos == -1 {
			break
		}
		idx += int64(pos)
		primes = append(primes, 2*idx+3)
		idx++
		if idx >= sieveSize {
			break
		}
	}

	return primes
}

// SegmentedSieve returns every prime strictly less than n, processing the
// range in fixed-size segments so memory use stays bounded regardless of n.
// progress, if non-nil, is called once per segment with a delta of 1.
func SegmentedSieve(n int64, segmentSize int64, progress func(int)) []int64 {
	if n <= 2 {
		return nil
	}
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}

	basePrimesOdd := oddBasePrimes(n)

	segments := (n + segmentSize - 1) / segmentSize
	primes := make([]int64, 0, estimatePrimeCount(n))

	isPrime := make([]byte, segmentSize)

	for segIdx := int64(0); segIdx < segments; segIdx++ {
		low := segIdx * segmentSize
		high := low + segmentSize
		if high > n {
			high = n
		}

		if high <= 2 {
			if progress != nil {
				progress(1)
			}
			continue
		}

		segPrimes := sieveSegmentOddOnly(low, high, basePrimesOdd, isPrime)
		primes = append(primes, segPrimes...)

		if progress != nil {
			progress(1)
		}
	}

	return primes
}

type segmentWork struct {
	segIdx int64
	low    int64
	high   int64
}

type segmentResult struct {
	segIdx int64
	primes []int64
}

func workerProcessSegment(
	workChan <-chan segmentWork,
	resultsChan chan<- segmentResult,
	basePrimes []int64,
	segmentSize int64,
	wg *sync.WaitGroup,
	completedSegments *int64,
) {
	defer wg.Done()
	isPrime := make([]byte, segmentSize)

	for work := range workChan {
		if work.high <= 2 {
			atomic.AddInt64(completedSegments, 1)
			resultsChan <- segmentResult{segIdx: work.segIdx, primes: nil}
			continue
		}

		segPrimes := sieveSegmentOddOnly(work.low, work.high, basePrimes, isPrime)
		atomic.AddInt64(completedSegments, 1)

		resultsChan <- segmentResult{
			segIdx: work.segIdx,
			primes: segPrimes,
		}
	}
}

// ParallelSegmentedSieve is SegmentedSieve spread across a fixed worker pool.
// Output order matches SegmentedSieve exactly; only wall-clock time differs.
func ParallelSegmentedSieve(n int64, workers int, segmentSize int64, progress func(int)) []int64 {
	if n <= 2 {
		return nil
	}
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	basePrimesOdd := oddBasePrimes(n)

	segments := (n + segmentSize - 1) / segmentSize
	numWorkers := int64(workers)
	if numWorkers > segments {
		numWorkers = segments
	}

	workChan := make(chan segmentWork, numWorkers*2)
	resultsChan := make(chan segmentResult, numWorkers*2)
	var wg sync.WaitGroup
	var completedSegments int64

	for i := int64(0); i < numWorkers; i++ {
		wg.Add(1)
		go workerProcessSegment(workChan, resultsChan, basePrimesOdd, segmentSize, &wg, &completedSegments)
	}

	go func() {
		for segIdx := int64(0); segIdx < segments; segIdx++ {
			low := segIdx * segmentSize
			high := low + segmentSize
			if high > n {
				high = n
			}
			workChan <- segmentWork{segIdx: segIdx, low: low, high: high}
		}
		close(workChan)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var progressDone chan struct{}
	if progress != nil {
		progressDone = make(chan struct{})
		go func() {
			defer close(progressDone)
			var lastSeen int64
			for {
				current := atomic.LoadInt64(&completedSegments)
				if current > lastSeen {
					progress(int(current - lastSeen))
					lastSeen = current
				}
				if current >= segments {
					return
				}
				runtime.Gosched()
			}
		}()
	}

	results := make([][]int64, segments)
	totalPrimes := 0
	for result := range resultsChan {
		results[result.segIdx] = result.primes
		totalPrimes += len(result.primes)
	}

	if progressDone != nil {
		<-progressDone
	}

	allPrimes := make([]int64, 0, totalPrimes)
	for _, segPrimes := range results {
		allPrimes = append(allPrimes, segPrimes...)
	}

	return allPrimes
}

// SieveRange returns every prime p with low <= p < high. It is the building
// block primeiter pages through for both the forward and reverse cursors:
// unlike SegmentedSieve it does not require sieving from zero.
func SieveRange(low, high int64) []int64 {
	if low < 0 {
		low = 0
	}
	if high <= low {
		return nil
	}
	basePrimes := oddBasePrimes(high)
	buf := make([]byte, high-low)
	return sieveSegmentOddOnly(low, high, basePrimes, buf)
}

// GeneratePrimes dispatches to the sequential, segmented, or parallel
// strategy based on the size of n.
func GeneratePrimes(n int64, parallel bool, progress func(int)) []int64 {
	if n <= 2 {
		return nil
	}
	if parallel && n >= ParallelThreshold {
		return ParallelSegmentedSieve(n, 0, DefaultSegmentSize, progress)
	}
	if n >= DefaultSegmentSize {
		return SegmentedSieve(n, DefaultSegmentSize, progress)
	}
	return SieveOfEratosthenes(n)
}

func oddBasePrimes(n int64) []int64 {
	baseLimit := isqrtFloat(n)
	allBasePrimes := SieveOfEratosthenes(baseLimit + 1)
	basePrimesOdd := make([]int64, 0, len(allBasePrimes))
	for _, p := range allBasePrimes {
		if p > 2 {
			basePrimesOdd = append(basePrimesOdd, p)
		}
	}
	return basePrimesOdd
}

func isqrtFloat(n int64) int64 {
	return int64(math.Sqrt(float64(n)))
}

func estimatePrimeCount(n int64) int64 {
	if n < 7 {
		return 4
	}
	return int64(float64(n) / math.Log(float64(n)) * 1.1)
}
