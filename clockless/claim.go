package clockless

import (
	"errors"
	"fmt"
)

// ErrPinInUse is returned when a pin is already driven by another controller.
var ErrPinInUse = errors.New("clockless: pin already claimed")

// maxClaimPin bounds the pin numbers the claim mask can hold.
const maxClaimPin = 64

// claimedPins is the bitmask of pins owned by a controller.
var claimedPins uint64

// IsPinClaimed returns true if pin is driven by a controller and should not
// be used.
func IsPinClaimed(pin int) bool {
	return pin >= 0 && pin < maxClaimPin && claimedPins&(1<<pin) != 0
}

// TryClaimPin claims pin for the caller and returns true if it was free.
// Regardless of result the pin is claimed after the call ends.
func TryClaimPin(pin int) bool {
	if pin < 0 || pin >= maxClaimPin {
		panic(badPin)
	}
	if IsPinClaimed(pin) {
		return false
	}
	claimedPins |= 1 << pin
	return true
}

// UnclaimPin releases pin for use by other code.
func UnclaimPin(pin int) {
	if pin < 0 || pin >= maxClaimPin {
		return
	}
	claimedPins &^= 1 << pin
}

// claimController claims pin and builds a controller on it. The pin is
// released again if build fails, and by Close otherwise.
func claimController(pin int, build func() (*Clockless, error)) (*Clockless, error) {
	if !TryClaimPin(pin) {
		return nil, fmt.Errorf("%w: %d", ErrPinInUse, pin)
	}
	c, err := build()
	if err != nil {
		UnclaimPin(pin)
		return nil, err
	}
	c.release = func() { UnclaimPin(pin) }
	return c, nil
}
