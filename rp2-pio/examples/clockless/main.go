//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strconv"
	"time"

	"github.com/fastled/clockless/clockless"
	pio "github.com/fastled/clockless/rp2-pio"
	"github.com/fastled/clockless/rp2-pio/piolib"
)

var (
	ledPin   string
	ledCount = "30"
)

/*
This example package can be flashed, specifying the GPIO number via the -ldflags
flag like so:
tinygo flash -target=pico -ldflags "-X main.ledPin=$GPIO_NUMBER -X main.ledCount=60" ./rp2-pio/examples/clockless/
*/
func main() {
	pinNum, err := strconv.Atoi(ledPin)
	if err != nil {
		println("Invalid pin number: " + ledPin)
		pinNum = 16
	}
	count, err := strconv.Atoi(ledCount)
	if err != nil || count <= 0 {
		count = 30
	}
	sm, _ := pio.PIO0.ClaimStateMachine()
	strip, err := piolib.NewClockless(sm, machine.Pin(pinNum), clockless.Config{
		Chipset: clockless.WS2812,
		Adjust:  clockless.ColorAdjustment{Correction: clockless.TypicalLEDStrip},
		Dither:  true,
	})
	if err != nil {
		panic(err.Error())
	}
	if err := strip.EnableDMA(true); err != nil {
		println("dma:", err.Error())
	}
	pt := strip.Timing()
	println("pio phases", pt.T1, pt.T2, pt.T3, "clkdiv", pt.Whole, pt.Frac)

	leds := clockless.NewRegistry(nil)
	s := leds.Add(strip, make([]byte, 3*count), count)
	if err := leds.Init(); err != nil {
		panic(err.Error())
	}
	leds.SetBrightness(64)
	leds.SetMaxRefreshRate(100)

	for hue := 0; ; hue++ {
		for i := 0; i < count; i++ {
			s.Set(i, wheel(uint8(hue+i*256/count)))
		}
		if err := leds.Show(); err != nil {
			println("show:", err.Error())
		}
		if hue%256 == 0 {
			println("fps", leds.FPS())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// wheel maps 0..255 onto a red, green, blue colour circle.
func wheel(pos uint8) clockless.Color {
	switch {
	case pos < 85:
		return clockless.Color{R: 255 - pos*3, G: pos * 3}
	case pos < 170:
		pos -= 85
		return clockless.Color{G: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return clockless.Color{R: pos * 3, B: 255 - pos*3}
	}
}
