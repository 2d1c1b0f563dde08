package clockless

import (
	"errors"
	"testing"
	"time"
)

func TestRealize(t *testing.T) {
	for _, tt := range []struct {
		name       string
		hz         uint32
		t1, t2, t3 uint32
	}{
		{"16MHz", 16_000_000, 4, 10, 6},
		{"64MHz", 64_000_000, 16, 40, 24},
		{"125MHz", 125_000_000, 31, 78, 47},
		{"133MHz", 133_000_000, 33, 83, 50},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := WS2812.Realize(tt.hz, 1)
			if err != nil {
				t.Fatalf("Realize() error = %v", err)
			}
			if ct.T1 != tt.t1 || ct.T2 != tt.t2 || ct.T3 != tt.t3 {
				t.Errorf("Realize() = %d/%d/%d, want %d/%d/%d", ct.T1, ct.T2, ct.T3, tt.t1, tt.t2, tt.t3)
			}
			if ct.Hz != tt.hz {
				t.Errorf("Hz = %d, want %d", ct.Hz, tt.hz)
			}
			if half := ct.Duration(1)/2 + 1; ct.Error(WS2812.Timing) > half {
				t.Errorf("Error() = %v, want at most half a cycle (%v)", ct.Error(WS2812.Timing), half)
			}
		})
	}
}

func TestRealizeError(t *testing.T) {
	ct, err := WS2812.Realize(125_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ct.Error(WS2812.Timing), 2*time.Nanosecond; got != want {
		t.Errorf("Error() = %v, want %v", got, want)
	}
	if got := ct.Period(); got != 156 {
		t.Errorf("Period() = %d, want 156", got)
	}
}

func TestRealizeUnrealizable(t *testing.T) {
	for _, tt := range []struct {
		name     string
		hz       uint32
		minPhase uint32
	}{
		{"zero clock", 0, 1},
		{"rounds to zero", 1_000_000, 1},
		{"below min phase", 16_000_000, 5},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WS2812.Realize(tt.hz, tt.minPhase)
			if !errors.Is(err, ErrTimingUnrealizable) {
				t.Errorf("Realize() error = %v, want ErrTimingUnrealizable", err)
			}
		})
	}
}

func TestMustRealizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRealize() did not panic")
		}
	}()
	MustRealize(WS2812.Timing, 1_000_000, 1)
}

func TestCycles(t *testing.T) {
	ct := CycleTiming{Hz: 64_000_000}
	for _, tt := range []struct {
		d    time.Duration
		want uint32
	}{
		{0, 0},
		{-time.Nanosecond, 0},
		{7 * time.Nanosecond, 0},
		{8 * time.Nanosecond, 1},
		{time.Microsecond, 64},
		{280 * time.Microsecond, 17920},
	} {
		if got := ct.Cycles(tt.d); got != tt.want {
			t.Errorf("Cycles(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestLookupChipset(t *testing.T) {
	for _, tt := range []struct {
		name string
		want string
	}{
		{"WS2812", "WS2812"},
		{"ws2812b", "WS2812"},
		{"NeoPixel", "WS2812"},
		{" tm1804 ", "TM1809"},
		{"sk6812w", "SK6812RGBW"},
		{"UCS1903B", "UCS1903B"},
	} {
		c, err := LookupChipset(tt.name)
		if err != nil {
			t.Errorf("LookupChipset(%q) error = %v", tt.name, err)
			continue
		}
		if c.Name != tt.want {
			t.Errorf("LookupChipset(%q) = %s, want %s", tt.name, c.Name, tt.want)
		}
	}
	if _, err := LookupChipset("APA102"); !errors.Is(err, ErrUnknownChipset) {
		t.Errorf("LookupChipset(APA102) error = %v, want ErrUnknownChipset", err)
	}
}

func TestChipsetTable(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Chipsets {
		if seen[c.Name] {
			t.Errorf("duplicate chipset %s", c.Name)
		}
		seen[c.Name] = true
		if !c.Order.Valid() {
			t.Errorf("%s: invalid order %v", c.Name, c.Order)
		}
		if c.Channels != 3 && c.Channels != 4 {
			t.Errorf("%s: %d channels", c.Name, c.Channels)
		}
		if c.Reset < 50*time.Microsecond {
			t.Errorf("%s: reset %v below 50us", c.Name, c.Reset)
		}
		// Every chipset must be drivable at the slowest clock we support.
		if _, err := c.Realize(16_000_000, 1); err != nil {
			t.Errorf("%s: %v", c.Name, err)
		}
	}
}
