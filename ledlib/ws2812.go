//go:build tinygo && baremetal

package ledlib

import (
	"fmt"
	"machine"
	"time"

	"github.com/fastled/clockless/clockless"
	"tinygo.org/x/drivers/ws2812"
)

// WS2812 sends frames through the tinygo.org/x/drivers ws2812 driver. It is
// the fallback for MCUs without a pin map or a usable cycle counter. The
// driver has fixed 800 kHz timing, so only chipsets with a bit period near
// 1.25us are accepted.
type WS2812 struct {
	buffered
	pin machine.Pin
	dev ws2812.Device
}

var _ clockless.Controller = (*WS2812)(nil)

// NewWS2812 returns a driver backed controller on pin.
func NewWS2812(pin machine.Pin, cfg clockless.Config) (*WS2812, error) {
	if p := cfg.Chipset.Timing.Period(); p < 1100*time.Nanosecond || p > 1400*time.Nanosecond {
		return nil, fmt.Errorf("%w: %s bit period %v, driver sends 1.25us",
			clockless.ErrTimingUnrealizable, cfg.Chipset.Name, p)
	}
	d := &WS2812{pin: pin, dev: ws2812.New(pin)}
	var err error
	d.buffered, err = newBuffered(cfg, d.setup, d.write)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *WS2812) setup() error {
	d.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.pin.Low()
	return nil
}

func (d *WS2812) write(frame []byte) error {
	var cs clockless.CriticalSection
	cs.Enter()
	_, err := d.dev.Write(frame)
	cs.Exit()
	return err
}
