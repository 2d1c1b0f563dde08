package clockless

// Counter is a free running cycle counter. Cycles wraps at 2^32; callers
// compare readings by signed difference.
type Counter interface {
	Cycles() uint32
}

// Delayer burns a fixed number of CPU cycles.
type Delayer interface {
	Delay(cycles uint32)
}

// maxNops is the longest NOP run a Delayer unrolls after its loop, so a
// loop may cost at most maxNops+1 cycles per iteration.
const maxNops = 7

const badNopLoop = "clockless: delay loop too slow for the unrolled tail"

// DelayPlan splits a cycle delay into whole loop iterations plus single NOPs.
type DelayPlan struct {
	Loops uint32
	Nops  uint32
}

// PlanDelay returns the plan whose cost, overhead + Loops*loopCycles + Nops,
// is the largest value not above n. Delays shorter than overhead plan to
// nothing. A delay never overshoots.
func PlanDelay(n, loopCycles, overhead uint32) DelayPlan {
	if n <= overhead {
		return DelayPlan{}
	}
	n -= overhead
	if loopCycles == 0 {
		return DelayPlan{Nops: n}
	}
	return DelayPlan{Loops: n / loopCycles, Nops: n % loopCycles}
}

// Cost returns the cycles the plan takes, overhead included.
func (p DelayPlan) Cost(loopCycles, overhead uint32) uint32 {
	if p == (DelayPlan{}) {
		return 0
	}
	return overhead + p.Loops*loopCycles + p.Nops
}

// DelayCosts are the cycle costs the delay engine subtracts from the phases
// so the edges land where the timing asks.
type DelayCosts struct {
	// Set and Clear are the cost of one pin store.
	Set, Clear uint32
	// Bit is the per-bit loop overhead: shift, test and branch.
	Bit uint32
	// Load is the cost of fetching and scaling the next byte, hidden in the
	// low phase of each byte's last bit.
	Load uint32
}

// minPhase is the shortest T1 and T3 the costs allow.
func (c DelayCosts) minPhase() uint32 {
	m := c.Set
	if low := c.Clear + c.Bit + c.Load; low > m {
		m = low
	}
	if m == 0 {
		m = 1
	}
	return m
}

func subSat(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// loopCycles returns the per-iteration cost of a loop that took total cycles
// over n iterations. It panics if the remainder of a delay could exceed the
// unrolled NOP tail.
func loopCycles(total, n uint32) uint32 {
	loop := total / n
	if loop == 0 {
		loop = 1
	}
	if loop > maxNops+1 {
		panic(badNopLoop)
	}
	return loop
}
