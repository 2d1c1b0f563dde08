package piolib

import (
	"fmt"
	"time"

	"github.com/fastled/clockless/clockless"
	pio "github.com/fastled/clockless/rp2-pio"
)

// The clockless program shifts one bit per pass, MSB first, with the data
// pin on side-set:
//
//	    .side_set 1
//	    .wrap_target
//	bitloop:
//	    out x, 1        side 0 [T3-1]
//	    jmp !x, zero    side 1 [T1-1]
//	    jmp bitloop     side 1 [T2-1]
//	zero:
//	    nop             side 0 [T2-1]
//	    .wrap
//
// The out stalls with the pin low when the FIFO runs dry, so the line idles
// low between frames.
const (
	clocklessSideSet    = 1
	clocklessWrapTarget = 0
	clocklessWrap       = 3
	clocklessZero       = 3

	// maxPhaseCycles is one instruction plus its longest delay.
	maxPhaseCycles = 16
)

// ProgramTiming is a chipset timing realized as state machine cycles and
// the clock divider that makes them match the datasheet.
type ProgramTiming struct {
	// T1, T2, T3 in state machine cycles, each 1..16.
	T1, T2, T3 uint8
	// Clock divider, Whole + Frac/256 system clocks per state machine cycle.
	Whole uint16
	Frac  uint8
	// Hz is the system clock the divider was solved for.
	Hz uint32
}

// SolveTiming finds the divider and cycle split closest to ts at a system
// clock of sysHz. It tries every cycles-per-bit count the program can hold
// and keeps the one with the smallest worst phase error, preferring more
// cycles per bit on ties.
func SolveTiming(ts clockless.TimingSpec, sysHz uint32) (ProgramTiming, error) {
	var best ProgramTiming
	bestErr := time.Duration(-1)
	period := uint64(ts.Period())
	for n := 3 * maxPhaseCycles; n >= 3; n-- {
		whole, frac, err := pio.ClkDivNearest(period, uint64(n), sysHz)
		if err != nil {
			continue
		}
		pt := ProgramTiming{Whole: whole, Frac: frac, Hz: sysHz}
		var ok1, ok2, ok3 bool
		pt.T1, ok1 = pt.cycles(ts.T1)
		pt.T2, ok2 = pt.cycles(ts.T2)
		pt.T3, ok3 = pt.cycles(ts.T3)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if e := pt.Error(ts); bestErr < 0 || e < bestErr {
			best, bestErr = pt, e
		}
	}
	if bestErr < 0 {
		return ProgramTiming{}, fmt.Errorf("%w: no PIO divider fits %v/%v/%v at %d Hz",
			clockless.ErrTimingUnrealizable, ts.T1, ts.T2, ts.T3, sysHz)
	}
	return best, nil
}

// div256 returns the divider in 1/256 system clocks.
func (pt ProgramTiming) div256() uint64 {
	return uint64(pt.Whole)<<8 | uint64(pt.Frac)
}

func (pt ProgramTiming) cycles(d time.Duration) (uint8, bool) {
	num := uint64(d) * 256 * uint64(pt.Hz)
	den := pt.div256() * uint64(time.Second)
	c := (num + den/2) / den
	if c < 1 || c > maxPhaseCycles {
		return 0, false
	}
	return uint8(c), true
}

// Phase returns the duration of cycles state machine cycles, rounded to the
// nanosecond.
func (pt ProgramTiming) Phase(cycles uint8) time.Duration {
	num := uint64(cycles) * pt.div256() * uint64(time.Second)
	den := 256 * uint64(pt.Hz)
	return time.Duration((num + den/2) / den)
}

// Period returns the realized duration of one bit.
func (pt ProgramTiming) Period() time.Duration {
	return pt.Phase(pt.T1 + pt.T2 + pt.T3)
}

// Error returns the largest absolute difference between a realized phase
// and the matching phase of ts.
func (pt ProgramTiming) Error(ts clockless.TimingSpec) time.Duration {
	worst := time.Duration(0)
	for _, p := range [...]struct {
		want time.Duration
		got  uint8
	}{{ts.T1, pt.T1}, {ts.T2, pt.T2}, {ts.T3, pt.T3}} {
		diff := pt.Phase(p.got) - p.want
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return worst
}

// Program assembles the clockless program for pt. Jump targets are relative
// to the program start, as PIO.AddProgram expects.
func (pt ProgramTiming) Program() []uint16 {
	if pt.T1 < 1 || pt.T2 < 1 || pt.T3 < 1 ||
		pt.T1 > maxPhaseCycles || pt.T2 > maxPhaseCycles || pt.T3 > maxPhaseCycles {
		panic("piolib: phase out of range")
	}
	side := func(v uint8) uint16 { return pio.EncodeSideSet(clocklessSideSet, v) }
	delay := func(c uint8) uint16 { return pio.EncodeDelay(clocklessSideSet, c-1) }
	return []uint16{
		pio.EncodeOut(pio.SrcDestX, 1) | side(0) | delay(pt.T3),
		pio.EncodeJmp(clocklessZero, pio.JmpXZero) | side(1) | delay(pt.T1),
		pio.EncodeJmp(clocklessWrapTarget, pio.JmpAlways) | side(1) | delay(pt.T2),
		pio.EncodeNOP() | side(0) | delay(pt.T2),
	}
}
