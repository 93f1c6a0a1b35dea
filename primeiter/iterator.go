// Package primeiter provides the forward and reverse prime cursors the P2
// worker streams primes through. Each cursor is owned by exactly one
// goroutine; the package itself holds no shared mutable state, so sharing
// the prime.SieveRange substrate read-only across cursors is safe.
package primeiter

import "github.com/spsforks/primecount-p2/prime"

// minPage is the smallest window width a cursor pages through
// prime.SieveRange with. A Forward cursor's page is the wider of minPage and
// its stopHint span and keeps that width on refill, doubling only when a
// page holds no prime; a Reverse cursor doubles its page on every refill.
const minPage int64 = 1 << 16

// Forward streams primes in increasing order starting at the smallest prime
// >= seed. stopHint sizes the first page; exceeding it only costs another
// (larger) page, never a correctness failure.
type Forward struct {
	buf  []int64
	idx  int
	high int64 // exclusive upper bound already sieved
	page int64
}

// NewForward returns a cursor whose first Next() yields the smallest prime
// >= seed.
func NewForward(seed, stopHint int64) *Forward {
	if seed < 0 {
		seed = 0
	}
	page := stopHint - seed + 1
	if page < minPage {
		page = minPage
	}
	f := &Forward{page: page, high: seed}
	f.grow(seed)
	return f
}

func (f *Forward) grow(low int64) {
	for {
		high := low + f.page
		f.buf = prime.SieveRange(low, high)
		f.high = high
		f.idx = 0
		if len(f.buf) > 0 {
			return
		}
		low = high
		f.page *= 2
	}
}

// Next returns the next prime in increasing order, extending its internal
// window transparently as needed.
func (f *Forward) Next() int64 {
	if f.idx >= len(f.buf) {
		f.grow(f.high)
	}
	p := f.buf[f.idx]
	f.idx++
	return p
}

// AdvanceTo advances the cursor, counting every prime <= limit that it
// consumes, and returns that count. It is the primitive the P2 worker uses
// to accumulate pix: the number of primes passed while moving the cursor
// forward to a new high-water mark.
func (f *Forward) AdvanceTo(limit int64) int64 {
	var advanced int64
	for {
		if f.idx >= len(f.buf) {
			f.grow(f.high)
		}
		if f.buf[f.idx] > limit {
			return advanced
		}
		f.idx++
		advanced++
	}
}

// Reverse streams primes in decreasing order, starting at the largest prime
// <= seed, until it runs out below floorHint. Once exhausted, Prev reports
// ok == false on every subsequent call.
type Reverse struct {
	buf   []int64
	idx   int
	low   int64 // inclusive lower bound already sieved
	floor int64
	page  int64
}

// NewReverse returns a cursor whose first Prev() yields the largest prime
// <= seed, descending no further than floorHint.
func NewReverse(seed, floorHint int64) *Reverse {
	if floorHint < 0 {
		floorHint = 0
	}
	r := &Reverse{floor: floorHint, page: minPage}
	high := seed + 1
	low := high - r.page
	if low < floorHint {
		low = floorHint
	}
	r.fill(low, high)
	return r
}

func (r *Reverse) fill(low, high int64) {
	if low < 0 {
		low = 0
	}
	r.buf = prime.SieveRange(low, high)
	r.low = low
	r.idx = len(r.buf) - 1
}

// Prev returns the next-smaller prime, and false once no prime remains at
// or above floorHint.
func (r *Reverse) Prev() (int64, bool) {
	for r.idx < 0 {
		if r.low <= r.floor {
			return 0, false
		}
		high := r.low
		r.page *= 2
		low := high - r.page
		if low < r.floor {
			low = r.floor
		}
		r.fill(low, high)
	}
	p := r.buf[r.idx]
	r.idx--
	return p, true
}
