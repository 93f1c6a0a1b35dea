package p2

// cacheLineSize is the padding target for per-worker output slots.
// The round barrier makes writes to slot[i] and slot[i+1] a join, not a
// race, but they still land on the same physical cache line unless padded
// apart - at the tens-of-workers scale this pool runs at, that false
// sharing is measurable and not optional to avoid.
const cacheLineSize = 64

// workerSlot holds one worker's round output. Exactly one goroutine writes
// each slot during the parallel phase; the orchestrator only reads them
// after the round barrier.
type workerSlot struct {
	partialSum int64
	pix        int64
	pixCount   int64
	_          [cacheLineSize - 3*8]byte
}
