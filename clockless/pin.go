package clockless

const badPin = "clockless: pin not in pin map"

// Port drives one output pin. Set and Clear are called from the bit loop and
// must each be a single register store.
type Port interface {
	// SetOutput configures the pin as a push-pull output. Called once by Init.
	SetOutput()
	Set()
	Clear()
}

// PinHandle locates a pin's set and clear registers. Writing Mask to Set
// drives the pin high, writing it to Clear drives it low, leaving every other
// pin on the port untouched.
type PinHandle struct {
	Set, Clear uintptr
	Mask       uint32
}

// Valid reports whether h has both registers and exactly one mask bit.
func (h PinHandle) Valid() bool {
	return h.Set != 0 && h.Clear != 0 && h.Mask != 0 && h.Mask&(h.Mask-1) == 0
}

// PinMap is a board table of pin handles indexed by pin number.
type PinMap []PinHandle

// Resolve returns the handle of pin. It panics if the board has no such pin,
// so a bad pin number stops the program at initialization rather than
// producing a silent strip.
func (m PinMap) Resolve(pin int) PinHandle {
	if pin < 0 || pin >= len(m) || !m[pin].Valid() {
		panic(badPin)
	}
	return m[pin]
}

// sioPins builds the single-cycle IO map for GPIO 0..n-1.
func sioPins(set, clr uintptr, n int) PinMap {
	m := make(PinMap, n)
	for i := range m {
		m[i] = PinHandle{Set: set, Clear: clr, Mask: 1 << i}
	}
	return m
}

// Board pin maps. On the RP2 family GPIO_OUT_SET and GPIO_OUT_CLR of the SIO
// block are write-one-to-act, so a set or clear is one store.
var (
	RP2040Pins = sioPins(0xd0000014, 0xd0000018, 30)
	RP2350Pins = sioPins(0xd0000018, 0xd0000020, 30)
)
