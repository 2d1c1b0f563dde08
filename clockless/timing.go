package clockless

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by this package.
var (
	ErrTimingUnrealizable = errors.New("clockless: timing not realizable at this clock")
	ErrShortBuffer        = errors.New("clockless: pixel buffer shorter than count")
	ErrNotInitialized     = errors.New("clockless: controller not initialized")
	ErrUnknownChipset     = errors.New("clockless: unknown chipset")
	ErrBadChannelOrder    = errors.New("clockless: invalid channel order")
)

// TimingSpec holds the three phases of one clockless bit as published in a
// chipset datasheet.
//
//	T1: high time common to both bit values.
//	T2: extra high time of a 1 bit, extra low time of a 0 bit.
//	T3: low time common to both bit values.
type TimingSpec struct {
	T1, T2, T3 time.Duration
}

// Period returns the duration of one bit.
func (ts TimingSpec) Period() time.Duration { return ts.T1 + ts.T2 + ts.T3 }

// CycleTiming is a TimingSpec converted to CPU cycles for a given clock.
type CycleTiming struct {
	T1, T2, T3 uint32
	// Hz is the clock the cycle counts refer to.
	Hz uint32
}

// Period returns the number of cycles in one bit.
func (ct CycleTiming) Period() uint32 { return ct.T1 + ct.T2 + ct.T3 }

// Duration converts a cycle count at ct.Hz back to a duration.
func (ct CycleTiming) Duration(cycles uint32) time.Duration {
	return time.Duration(uint64(cycles) * uint64(time.Second) / uint64(ct.Hz))
}

// Cycles converts a duration to cycles at ct.Hz, rounded to nearest.
func (ct CycleTiming) Cycles(d time.Duration) uint32 {
	return durationToCycles(d, ct.Hz)
}

// Error returns the largest absolute difference between a phase of ts and
// the realized phase of ct.
func (ct CycleTiming) Error(ts TimingSpec) time.Duration {
	worst := time.Duration(0)
	for _, p := range [...]struct {
		want time.Duration
		got  uint32
	}{{ts.T1, ct.T1}, {ts.T2, ct.T2}, {ts.T3, ct.T3}} {
		diff := ct.Duration(p.got) - p.want
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return worst
}

func durationToCycles(d time.Duration, hz uint32) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32((uint64(d)*uint64(hz) + uint64(time.Second)/2) / uint64(time.Second))
}

// Realize converts ts to cycles at cpuHz. Every phase must come out at
// minPhase cycles or more, otherwise the chipset cannot tell a 0 bit from
// a 1 bit and ErrTimingUnrealizable is returned.
func Realize(ts TimingSpec, cpuHz, minPhase uint32) (CycleTiming, error) {
	if cpuHz == 0 {
		return CycleTiming{}, fmt.Errorf("%w: zero clock", ErrTimingUnrealizable)
	}
	if minPhase == 0 {
		minPhase = 1
	}
	ct := CycleTiming{
		T1: durationToCycles(ts.T1, cpuHz),
		T2: durationToCycles(ts.T2, cpuHz),
		T3: durationToCycles(ts.T3, cpuHz),
		Hz: cpuHz,
	}
	for i, c := range [...]uint32{ct.T1, ct.T2, ct.T3} {
		if c < minPhase {
			return CycleTiming{}, fmt.Errorf("%w: T%d is %d cycles at %d Hz, need %d",
				ErrTimingUnrealizable, i+1, c, cpuHz, minPhase)
		}
	}
	return ct, nil
}

// MustRealize is like Realize but panics on error. Use it for package level
// controller variables so a bad clock/chipset pair stops the program at init,
// before any frame is sent.
func MustRealize(ts TimingSpec, cpuHz, minPhase uint32) CycleTiming {
	ct, err := Realize(ts, cpuHz, minPhase)
	if err != nil {
		panic(err.Error())
	}
	return ct
}
