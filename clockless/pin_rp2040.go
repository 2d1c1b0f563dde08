//go:build rp2040

package clockless

var boardPins = RP2040Pins
