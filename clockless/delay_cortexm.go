//go:build tinygo && cortexm

package clockless

import "device/arm"

// NopDelay is a Delayer that spins a NOP loop. LoopCycles and Overhead depend
// on the core and the compiler; CalibrateNopDelay measures them. LoopCycles
// is at most maxNops+1 so the remainder fits the unrolled tail.
type NopDelay struct {
	LoopCycles uint32
	Overhead   uint32
}

//go:inline
func (d NopDelay) Delay(cycles uint32) {
	p := PlanDelay(cycles, d.LoopCycles, d.Overhead)
	for i := p.Loops; i > 0; i-- {
		arm.Asm("nop")
	}
	switch p.Nops {
	case 7:
		arm.Asm("nop")
		fallthrough
	case 6:
		arm.Asm("nop")
		fallthrough
	case 5:
		arm.Asm("nop")
		fallthrough
	case 4:
		arm.Asm("nop")
		fallthrough
	case 3:
		arm.Asm("nop")
		fallthrough
	case 2:
		arm.Asm("nop")
		fallthrough
	case 1:
		arm.Asm("nop")
	}
}

// CalibrateNopDelay times the loop against c. Interrupts are masked while
// measuring.
func CalibrateNopDelay(c Counter) NopDelay {
	const probe = 1000
	var cs CriticalSection
	cs.Enter()
	// A one-loop run measures the fixed cost, a long run the per-loop cost.
	d := NopDelay{LoopCycles: 1}
	start := c.Cycles()
	d.Delay(1)
	short := c.Cycles() - start
	start = c.Cycles()
	d.Delay(probe + 1)
	long := c.Cycles() - start
	cs.Exit()

	return NopDelay{LoopCycles: loopCycles(long-short, probe), Overhead: short}
}
