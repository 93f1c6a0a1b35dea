package p2

import "github.com/spsforks/primecount-p2/primeiter"

// workerInput is the immutable input to one worker's window, per §4.3.
// div computes floor(x/d); it closes over x so the same worker logic
// serves both the int64 path (div = plain division) and the big.Int path
// (div narrows a big.Int quotient to int64, saturating at math.MaxInt64;
// start and stop are clamped to y and sqrtX, and every xp is below z).
type workerInput struct {
	div            func(d int64) int64
	y              int64
	z              int64
	low            int64
	threadNum      int64
	threadDistance int64
	sqrtX          int64
}

// runWorker computes one worker's window contribution. It is a pure
// function of its inputs: identical inputs always produce an identical
// (partialSum, pix, pixCount), and it touches no state outside its
// arguments and return values.
//
// The window [my_low, my_high) lives in the quotient space of x/p, not in
// prime-value space: as my_high grows across rounds, start = floor(x/my_high)
// shrinks toward y, so start and my_high are never comparable quantities.
// The forward cursor therefore tracks pi over [my_low, my_high) itself -
// the only space in which consecutive windows tile contiguously - and
// partial_sum carries pi(xp) with the pi(my_low-1) term still missing. The
// orchestrator's stitch restores exactly that term via pix_low, which by
// construction equals pi(my_low-1) at the start of this window.
func runWorker(in workerInput) (partialSum, pix, pixCount int64) {
	myLow := in.low + in.threadDistance*in.threadNum
	myHigh := myLow + in.threadDistance
	if myHigh > in.z {
		myHigh = in.z
	}

	start := in.div(myHigh)
	if start < in.y {
		start = in.y
	}
	stop := in.div(myLow)
	if stop > in.sqrtX {
		stop = in.sqrtX
	}

	forward := primeiter.NewForward(myLow, myHigh-1)
	reverse := primeiter.NewReverse(stop, start+1)

	for {
		p, ok := reverse.Prev()
		if !ok {
			break
		}
		xp := in.div(p)
		if xp >= myHigh {
			// This and every remaining (smaller) p belong to a later
			// round or to a neighboring worker's window.
			break
		}
		// pix is cumulative: pi(xp) - pi(my_low-1), the count of primes
		// the cursor has passed since my_low. The missing pi(my_low-1)
		// term is restored once, globally, by the orchestrator's stitch.
		pix += forward.AdvanceTo(xp)
		partialSum += pix
		pixCount++
	}

	// pix must reflect every prime in [my_low, my_high-1], including
	// those past the last xp seen, for the orchestrator's prefix stitch.
	pix += forward.AdvanceTo(myHigh - 1)
	return partialSum, pix, pixCount
}
