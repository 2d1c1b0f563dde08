package clockless

import (
	"errors"
	"testing"
)

func TestPinClaims(t *testing.T) {
	const pin = 21
	t.Cleanup(func() { UnclaimPin(pin) })
	if IsPinClaimed(pin) {
		t.Fatalf("pin %d claimed before the test", pin)
	}
	if !TryClaimPin(pin) {
		t.Fatal("TryClaimPin() of a free pin failed")
	}
	if TryClaimPin(pin) {
		t.Error("TryClaimPin() claimed a pin twice")
	}
	if IsPinClaimed(pin + 1) {
		t.Error("claim leaked to the next pin")
	}
	UnclaimPin(pin)
	if IsPinClaimed(pin) {
		t.Error("UnclaimPin() left the pin claimed")
	}
	if IsPinClaimed(-1) || IsPinClaimed(maxClaimPin) {
		t.Error("out of range pins reported claimed")
	}
	defer func() {
		if recover() == nil {
			t.Error("TryClaimPin(64) did not panic")
		}
	}()
	TryClaimPin(maxClaimPin)
}

func TestClaimController(t *testing.T) {
	const pin = 22
	t.Cleanup(func() { UnclaimPin(pin) })
	build := func() (*Clockless, error) {
		line := NewSimLine(64_000_000, SimCosts{Set: 1, Clear: 1, Read: 2})
		return NewCounter(line, line, Config{Chipset: WS2812, CPUHz: 64_000_000, Now: line.Now})
	}
	c, err := claimController(pin, build)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := claimController(pin, build); !errors.Is(err, ErrPinInUse) {
		t.Errorf("second controller on pin %d: error = %v, want ErrPinInUse", pin, err)
	}
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	c.Close()
	if IsPinClaimed(pin) {
		t.Error("Close() left the pin claimed")
	}
	if err := c.Show([]byte{1, 2, 3}, 1, 255); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Show() after Close() error = %v, want ErrNotInitialized", err)
	}
	c, err = claimController(pin, build)
	if err != nil {
		t.Fatalf("claim after Close(): %v", err)
	}
	c.Close()

	failing := func() (*Clockless, error) { return nil, ErrTimingUnrealizable }
	if _, err := claimController(pin, failing); !errors.Is(err, ErrTimingUnrealizable) {
		t.Errorf("claimController() error = %v, want ErrTimingUnrealizable", err)
	}
	if IsPinClaimed(pin) {
		t.Error("failed build left the pin claimed")
	}
}
