package clockless

import (
	"fmt"
	"strings"
	"time"
)

// Chipset describes the wire protocol of a clockless LED part.
type Chipset struct {
	Name   string
	Timing TimingSpec
	// Reset is the minimum low time that latches a frame.
	Reset time.Duration
	// Order is the channel order the part expects on the wire.
	Order ChannelOrder
	// Channels is 3 for RGB parts and 4 for RGBW parts.
	Channels int
}

func ns(t1, t2, t3 int) TimingSpec {
	return TimingSpec{
		T1: time.Duration(t1) * time.Nanosecond,
		T2: time.Duration(t2) * time.Nanosecond,
		T3: time.Duration(t3) * time.Nanosecond,
	}
}

const defaultReset = 50 * time.Microsecond

// Known chipsets.
var (
	WS2812     = Chipset{"WS2812", ns(250, 625, 375), 280 * time.Microsecond, GRB, 3}
	WS2811     = Chipset{"WS2811", ns(320, 320, 640), defaultReset, RGB, 3}
	WS2811_400 = Chipset{"WS2811_400", ns(800, 800, 900), defaultReset, RGB, 3}
	WS2813     = Chipset{"WS2813", ns(320, 320, 640), 300 * time.Microsecond, GRB, 3}
	WS2815     = Chipset{"WS2815", ns(250, 625, 375), 280 * time.Microsecond, GRB, 3}
	SK6812     = Chipset{"SK6812", ns(300, 600, 300), 80 * time.Microsecond, GRB, 3}
	SK6812RGBW = Chipset{"SK6812RGBW", ns(300, 600, 300), 80 * time.Microsecond, GRB, 4}
	SK6822     = Chipset{"SK6822", ns(375, 1000, 375), defaultReset, RGB, 3}
	APA106     = Chipset{"APA106", ns(400, 1000, 400), defaultReset, RGB, 3}
	PL9823     = Chipset{"PL9823", ns(350, 1010, 350), defaultReset, RGB, 3}
	UCS1903    = Chipset{"UCS1903", ns(500, 1500, 500), defaultReset, RGB, 3}
	UCS1903B   = Chipset{"UCS1903B", ns(400, 450, 450), defaultReset, RGB, 3}
	UCS1904    = Chipset{"UCS1904", ns(400, 400, 450), defaultReset, RGB, 3}
	UCS2903    = Chipset{"UCS2903", ns(250, 750, 250), defaultReset, RGB, 3}
	TM1803     = Chipset{"TM1803", ns(700, 1100, 700), defaultReset, RGB, 3}
	TM1809     = Chipset{"TM1809", ns(350, 350, 450), defaultReset, RGB, 3}
	TM1814     = Chipset{"TM1814", ns(360, 600, 340), 200 * time.Microsecond, RGB, 4}
	TM1829     = Chipset{"TM1829", ns(340, 340, 550), 500 * time.Microsecond, RGB, 3}
	GW6205     = Chipset{"GW6205", ns(800, 800, 800), defaultReset, GRB, 3}
	GW6205_400 = Chipset{"GW6205_400", ns(800, 800, 1600), defaultReset, GRB, 3}
	LPD1886    = Chipset{"LPD1886", ns(200, 400, 200), defaultReset, RGB, 3}
	SM16703    = Chipset{"SM16703", ns(300, 600, 300), defaultReset, RGB, 3}
	GE8822     = Chipset{"GE8822", ns(350, 660, 350), defaultReset, RGB, 3}
)

// Chipsets lists every known chipset in table order.
var Chipsets = []Chipset{
	WS2812, WS2811, WS2811_400, WS2813, WS2815, SK6812, SK6812RGBW, SK6822,
	APA106, PL9823, UCS1903, UCS1903B, UCS1904, UCS2903, TM1803, TM1809,
	TM1814, TM1829, GW6205, GW6205_400, LPD1886, SM16703, GE8822,
}

var chipsetAliases = map[string]string{
	"WS2812B":  "WS2812",
	"NEOPIXEL": "WS2812",
	"TM1804":   "TM1809",
	"SK6812W":  "SK6812RGBW",
}

// LookupChipset finds a chipset by name, ignoring case.
func LookupChipset(name string) (Chipset, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := chipsetAliases[key]; ok {
		key = alias
	}
	for _, c := range Chipsets {
		if c.Name == key {
			return c, nil
		}
	}
	return Chipset{}, fmt.Errorf("%w: %q", ErrUnknownChipset, name)
}

// Realize converts the chipset timing for a CPU clock. See Realize.
func (c Chipset) Realize(cpuHz, minPhase uint32) (CycleTiming, error) {
	ct, err := Realize(c.Timing, cpuHz, minPhase)
	if err != nil {
		return ct, fmt.Errorf("%s: %w", c.Name, err)
	}
	return ct, nil
}
