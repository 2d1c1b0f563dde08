//go:build tinygo && cortexm

package clockless

import (
	"runtime/volatile"
	"unsafe"
)

type sysTickType struct {
	CSR   volatile.Register32
	RVR   volatile.Register32
	CVR   volatile.Register32
	CALIB volatile.Register32
}

var sysTickHW = (*sysTickType)(unsafe.Pointer(uintptr(0xE000E010)))

const (
	sysTickEnable    = 1 << 0
	sysTickClkSource = 1 << 2
	sysTickMask      = 0xFFFFFF
)

// SysTick is a Counter built on the Cortex-M SysTick timer, a 24 bit down
// counter clocked by the core. Readings are extended to 32 bits, which is
// exact as long as Cycles is called at least once every 2^24 cycles.
//
// SysTick is claimed exclusively: do not use it on targets whose runtime
// ticks on SysTick. The RP2 runtime uses its own timer block.
type SysTick struct {
	last uint32
	acc  uint32
}

// NewSysTick starts SysTick free running at the core clock.
func NewSysTick() *SysTick {
	sysTickHW.CSR.Set(0)
	sysTickHW.RVR.Set(sysTickMask)
	sysTickHW.CVR.Set(0)
	sysTickHW.CSR.Set(sysTickClkSource | sysTickEnable)
	return &SysTick{last: sysTickHW.CVR.Get()}
}

func (s *SysTick) Cycles() uint32 {
	cur := sysTickHW.CVR.Get()
	s.acc += (s.last - cur) & sysTickMask
	s.last = cur
	return s.acc
}
