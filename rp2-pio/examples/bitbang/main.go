//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strconv"
	"time"

	"github.com/fastled/clockless/clockless"
)

var (
	ledPin string
	// engine is "counter" (SysTick polled) or "delay" (calibrated NOP loop).
	engine = "counter"
)

/*
Bit-bangs a WS2812 strip from the CPU with interrupts masked for the whole
frame, timed by SysTick or by a NOP loop. Flash with:
tinygo flash -target=pico -ldflags "-X main.ledPin=$GPIO_NUMBER -X main.engine=delay" ./rp2-pio/examples/bitbang/
*/
func main() {
	pinNum, err := strconv.Atoi(ledPin)
	if err != nil {
		println("Invalid pin number: " + ledPin)
		pinNum = 16
	}
	const count = 8
	cfg := clockless.Config{Chipset: clockless.WS2812}
	newStrip := clockless.NewRP2
	if engine == "delay" {
		newStrip = clockless.NewRP2Delay
	}
	c, err := newStrip(machine.Pin(pinNum), cfg)
	if err != nil {
		panic(err.Error())
	}
	ct := c.Timing()
	println(engine, "cycles", ct.T1, ct.T2, ct.T3, "at", ct.Hz)
	if err := c.Init(); err != nil {
		panic(err.Error())
	}
	colors := [...]clockless.Color{{R: 32}, {G: 32}, {B: 32}}
	for i := 0; ; i++ {
		if err := c.ShowColor(colors[i%len(colors)], count, 255); err != nil {
			println("show:", err.Error())
		}
		time.Sleep(time.Second / 2)
	}
}
