package clockless

import (
	"fmt"
	"time"
)

// Controller sends frames to one strip.
type Controller interface {
	// Init configures the output and drives the line low. It must be called
	// once before the first frame.
	Init() error
	// Show sends count pixels from buf, every channel scaled by scale/255.
	// buf holds R, G, B[, W] per pixel regardless of the wire order.
	Show(buf []byte, count int, scale uint8) error
	// ShowColor sends c to count pixels.
	ShowColor(c Color, count int, scale uint8) error
	// Clear sends black to count pixels.
	Clear(count int) error
	// Channels returns 3 for RGB strips and 4 for RGBW strips.
	Channels() int
}

// Ditherer is implemented by controllers that support temporal dithering.
type Ditherer interface {
	SetDither(on bool)
}

// Config selects the chipset and the per-strip options of a controller.
type Config struct {
	Chipset Chipset
	// CPUHz is the clock of the time base in Hz.
	CPUHz uint32
	// Order overrides the chipset channel order when non-zero.
	Order ChannelOrder
	// Channels overrides the chipset channel count when non-zero.
	Channels int
	// Reset overrides the chipset reset time when non-zero.
	Reset  time.Duration
	Dither bool
	Adjust ColorAdjustment
	// Now is the clock of the latch window; nil uses the monotonic clock.
	Now func() time.Duration
}

// Encoder returns the frame encoder for cfg, resolving the chipset defaults.
func (cfg Config) Encoder() (FrameEncoder, error) {
	order := cfg.Order
	if order == 0 {
		order = cfg.Chipset.Order
	}
	if !order.Valid() {
		return FrameEncoder{}, fmt.Errorf("%w: %v", ErrBadChannelOrder, order)
	}
	ch := cfg.Channels
	if ch == 0 {
		ch = cfg.Chipset.Channels
	}
	if ch != 3 && ch != 4 {
		return FrameEncoder{}, fmt.Errorf("clockless: %d channels, want 3 or 4", ch)
	}
	return FrameEncoder{
		Order:    order,
		Channels: ch,
		Adjust:   cfg.Adjust,
		Dither:   cfg.Dither,
	}, nil
}

// Window returns the latch window for cfg.
func (cfg Config) Window() ReenableWindow {
	reset := cfg.Reset
	if reset == 0 {
		reset = cfg.Chipset.Reset
	}
	return NewReenableWindow(reset, cfg.Now)
}

// Clockless is a bit-banged Controller.
type Clockless struct {
	tx     transmitter
	enc    FrameEncoder
	timing CycleTiming
	latch  ReenableWindow
	ready  bool
	// release frees the pin claim, if the controller holds one.
	release func()
}

var _ Controller = (*Clockless)(nil)

// NewCounter returns a controller that times bits against clk.
func NewCounter[P Port, C Counter](port P, clk C, cfg Config) (*Clockless, error) {
	ct, err := cfg.Chipset.Realize(cfg.CPUHz, 1)
	if err != nil {
		return nil, err
	}
	return newClockless(newCounterEngine(port, clk, ct), ct, cfg)
}

// NewDelay returns a controller that times bits by counting cycles in d.
// Every phase must be long enough to absorb costs.
func NewDelay[P Port, D Delayer](port P, d D, costs DelayCosts, cfg Config) (*Clockless, error) {
	ct, err := cfg.Chipset.Realize(cfg.CPUHz, costs.minPhase())
	if err != nil {
		return nil, err
	}
	return newClockless(newDelayEngine(port, d, ct, costs), ct, cfg)
}

func newClockless(tx transmitter, ct CycleTiming, cfg Config) (*Clockless, error) {
	enc, err := cfg.Encoder()
	if err != nil {
		return nil, err
	}
	return &Clockless{
		tx:     tx,
		enc:    enc,
		timing: ct,
		latch:  cfg.Window(),
	}, nil
}

// Timing returns the realized bit timing.
func (c *Clockless) Timing() CycleTiming { return c.timing }

func (c *Clockless) Channels() int { return c.enc.Stride() }

func (c *Clockless) SetDither(on bool) { c.enc.Dither = on }

func (c *Clockless) Init() error {
	c.tx.setOutput()
	c.tx.idle()
	c.ready = true
	return nil
}

// Close drives the line low and releases the pin. The controller must not be
// used afterwards.
func (c *Clockless) Close() {
	if c.ready {
		c.tx.idle()
	}
	c.ready = false
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

func (c *Clockless) Show(buf []byte, count int, scale uint8) error {
	if !c.ready {
		return ErrNotInitialized
	}
	p, err := c.enc.frame(buf, count, scale)
	if err != nil {
		return err
	}
	c.send(&p)
	return nil
}

func (c *Clockless) ShowColor(col Color, count int, scale uint8) error {
	if !c.ready {
		return ErrNotInitialized
	}
	p := c.enc.color(col, count, scale)
	c.send(&p)
	return nil
}

func (c *Clockless) Clear(count int) error {
	return c.ShowColor(Black, count, 0)
}

func (c *Clockless) send(p *pixels) {
	c.latch.Wait()
	var cs CriticalSection
	cs.Enter()
	c.tx.transmit(p)
	cs.Exit()
	c.latch.Mark()
}
