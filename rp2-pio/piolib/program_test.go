package piolib

import (
	"errors"
	"testing"
	"time"

	"github.com/fastled/clockless/clockless"
)

func TestProgram(t *testing.T) {
	pt := ProgramTiming{T1: 2, T2: 5, T3: 3}
	var expectedProgram = []uint16{
		//     .wrap_target
		0x6221, //  0: out    x, 1            side 0 [2]
		0x1123, //  1: jmp    !x, 3           side 1 [1]
		0x1400, //  2: jmp    0               side 1 [4]
		0xa442, //  3: nop                    side 0 [4]
		//     .wrap
	}
	program := pt.Program()
	if len(program) != len(expectedProgram) {
		t.Fatalf("program has %d instructions, want %d", len(program), len(expectedProgram))
	}
	for i := range program {
		if program[i] != expectedProgram[i] {
			t.Errorf("instr %d mismatch got!=expected: %#x != %#x", i, program[i], expectedProgram[i])
		}
	}
}

func TestProgramLongestPhase(t *testing.T) {
	program := ProgramTiming{T1: 16, T2: 16, T3: 16}.Program()
	if got, want := program[0], uint16(0x6f21); got != want {
		t.Errorf("out with 16 cycle phase = %#x, want %#x", got, want)
	}
}

func TestProgramPanicsOutOfRange(t *testing.T) {
	for _, pt := range []ProgramTiming{{T1: 0, T2: 1, T3: 1}, {T1: 1, T2: 17, T3: 1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%+v.Program() did not panic", pt)
				}
			}()
			pt.Program()
		}()
	}
}

func TestSolveTimingWS2812(t *testing.T) {
	pt, err := SolveTiming(clockless.WS2812.Timing, 125_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if pt.T1 != 6 || pt.T2 != 15 || pt.T3 != 9 {
		t.Errorf("phases = %d/%d/%d, want 6/15/9", pt.T1, pt.T2, pt.T3)
	}
	if pt.Whole != 5 || pt.Frac != 53 {
		t.Errorf("clkdiv = %d+%d/256, want 5+53/256", pt.Whole, pt.Frac)
	}
	if e := pt.Error(clockless.WS2812.Timing); e != 0 {
		t.Errorf("Error() = %v, want 0", e)
	}
	if p := pt.Period(); p != 1250*time.Nanosecond {
		t.Errorf("Period() = %v, want 1.25us", p)
	}
}

func TestSolveTimingAllChipsets(t *testing.T) {
	for _, hz := range []uint32{48_000_000, 125_000_000, 133_000_000, 150_000_000, 200_000_000} {
		for _, c := range clockless.Chipsets {
			pt, err := SolveTiming(c.Timing, hz)
			if err != nil {
				t.Errorf("%s at %d Hz: %v", c.Name, hz, err)
				continue
			}
			if e := pt.Error(c.Timing); e > 20*time.Nanosecond {
				t.Errorf("%s at %d Hz: error %v, want at most 20ns", c.Name, hz, e)
			}
			if tol := 150 * time.Nanosecond; absDuration(pt.Period()-c.Timing.Period()) > tol {
				t.Errorf("%s at %d Hz: period %v, want %v", c.Name, hz, pt.Period(), c.Timing.Period())
			}
		}
	}
}

func TestSolveTimingUnrealizable(t *testing.T) {
	_, err := SolveTiming(clockless.WS2812.Timing, 1_000_000)
	if !errors.Is(err, clockless.ErrTimingUnrealizable) {
		t.Errorf("SolveTiming() at 1MHz error = %v, want ErrTimingUnrealizable", err)
	}
}

func TestDeadlinerTimeout(t *testing.T) {
	var dl deadliner
	dl.setTimeout(0)
	if dl.newDeadline().expired() {
		t.Error("zero timeout deadline expired")
	}
	dl.setTimeout(time.Millisecond)
	if got := time.Duration(1) << dl.timeout; got < time.Millisecond || got >= 2*time.Millisecond {
		t.Errorf("1ms timeout rounded to %v", got)
	}
	dl.setTimeout(1)
	if dl.timeout == 0 {
		t.Error("1ns timeout disabled the deadline")
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
