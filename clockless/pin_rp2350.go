//go:build rp2350

package clockless

var boardPins = RP2350Pins
