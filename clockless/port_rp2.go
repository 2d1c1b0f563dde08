//go:build rp2040 || rp2350

package clockless

import "machine"

// NewRP2 returns a SysTick timed controller on an RP2 GPIO, writing the pin
// through the SIO set and clear registers. A zero cfg.CPUHz uses the current
// core clock. The pin is claimed until Close; a second controller on it
// fails with ErrPinInUse.
func NewRP2(pin machine.Pin, cfg Config) (*Clockless, error) {
	if cfg.CPUHz == 0 {
		cfg.CPUHz = machine.CPUFrequency()
	}
	return claimController(int(pin), func() (*Clockless, error) {
		port := NewRegisterPort(pin, boardPins.Resolve(int(pin)))
		return NewCounter(port, NewSysTick(), cfg)
	})
}

// rp2DelayCosts are the M0+ costs of the delay engine's bit loop.
var rp2DelayCosts = DelayCosts{Set: 1, Clear: 1, Bit: 3, Load: 6}

// NewRP2Delay is like NewRP2 but times bits with a NOP loop calibrated
// against SysTick once at construction.
func NewRP2Delay(pin machine.Pin, cfg Config) (*Clockless, error) {
	if cfg.CPUHz == 0 {
		cfg.CPUHz = machine.CPUFrequency()
	}
	return claimController(int(pin), func() (*Clockless, error) {
		port := NewRegisterPort(pin, boardPins.Resolve(int(pin)))
		return NewDelay(port, CalibrateNopDelay(NewSysTick()), rp2DelayCosts, cfg)
	})
}
