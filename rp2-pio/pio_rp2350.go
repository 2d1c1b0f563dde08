//go:build rp2350

package pio

import (
	"device/rp"
)

const (
	rp2350ExtraReg = 1
)

// PIO2 only exists on the RP2350.
var (
	PIO2 = &PIO{
		hw: rp.PIO2,
	}
)

func (pio *PIO) blockIndex() uint8 {
	switch pio.hw {
	case rp.PIO0:
		return 0
	case rp.PIO1:
		return 1
	case rp.PIO2:
		return 2
	}
	panic(badPIO)
}

// SetGPIOBase selects which GPIO the block sees as its pin 0, 0 or 16.
// Strips wired above GPIO31 on an RP2350B need a base of 16.
func (pio *PIO) SetGPIOBase(base uint32) {
	switch base {
	case 0, 16:
		pio.hw.GPIOBASE.Set(base)
	default:
		panic("pio:invalid gpiobase")
	}
}
