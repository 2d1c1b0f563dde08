//go:build rp2040 || rp2350

package piolib

import (
	"machine"
	"time"

	"github.com/fastled/clockless/clockless"
	pio "github.com/fastled/clockless/rp2-pio"
)

// Clockless drives a strip of clockless LEDs from a PIO state machine. The
// bit timing is held by the state machine, so frames are sent with
// interrupts enabled.
type Clockless struct {
	sm      pio.StateMachine
	pin     machine.Pin
	timing  ProgramTiming
	program []uint16
	offset  uint8
	enc     clockless.FrameEncoder
	latch   clockless.ReenableWindow
	frame   []byte
	dma     dmaChannel
	dl      deadliner
	ready   bool
}

var _ clockless.Controller = (*Clockless)(nil)

// NewClockless loads the clockless program for cfg.Chipset into sm's PIO
// block and returns a controller for pin. A zero cfg.CPUHz uses the current
// system clock. Call Init before the first frame.
func NewClockless(sm pio.StateMachine, pin machine.Pin, cfg clockless.Config) (*Clockless, error) {
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	hz := cfg.CPUHz
	if hz == 0 {
		hz = machine.CPUFrequency()
	}
	pt, err := SolveTiming(cfg.Chipset.Timing, hz)
	if err != nil {
		return nil, err
	}
	enc, err := cfg.Encoder()
	if err != nil {
		return nil, err
	}
	program := pt.Program()
	offset, err := sm.PIO().AddProgram(program, -1)
	if err != nil {
		return nil, err
	}
	c := &Clockless{
		sm:      sm,
		pin:     pin,
		timing:  pt,
		program: program,
		offset:  offset,
		enc:     enc,
		latch:   cfg.Window(),
	}
	c.SetTimeout(10 * time.Millisecond)
	return c, nil
}

// Timing returns the realized program timing.
func (c *Clockless) Timing() ProgramTiming { return c.timing }

// SetTimeout bounds how long a frame may wait on a full FIFO or a DMA
// transfer. Zero waits forever.
func (c *Clockless) SetTimeout(timeout time.Duration) {
	c.dl.setTimeout(timeout)
	c.dma.dl = c.dl
}

// EnableDMA moves frames to the state machine by DMA instead of a FIFO loop.
// It returns an error if no channel is free or the chip has no DMA support.
func (c *Clockless) EnableDMA(enabled bool) error {
	if !enabled {
		c.dma.Unclaim()
		return nil
	}
	if c.dma.IsValid() {
		return nil
	}
	channel, ok := claimDMAChannel()
	if !ok {
		return errDMAUnavail
	}
	channel.dl = c.dl
	c.dma = channel
	return nil
}

// IsDMAEnabled returns true if DMA is enabled.
func (c *Clockless) IsDMAEnabled() bool { return c.dma.IsValid() }

// Init configures the pin and starts the state machine. The pin is driven
// low before the PIO takes it over.
func (c *Clockless) Init() error {
	Pio := c.sm.PIO()
	c.pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	c.sm.SetPinsConsecutive(c.pin, 1, false)
	c.sm.SetPindirsConsecutive(c.pin, 1, true)

	cfg := pio.DefaultStateMachineConfig()
	cfg.SetWrap(c.offset+clocklessWrapTarget, c.offset+clocklessWrap)
	cfg.SetSidesetParams(clocklessSideSet, false, false)
	cfg.SetSidesetPins(c.pin)
	// We only use Tx FIFO, so we set the join to Tx.
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	cfg.SetClkDivIntFrac(c.timing.Whole, c.timing.Frac)
	// One byte per FIFO word, MSB first from the top of the word.
	cfg.SetOutShift(false, true, 8)
	c.sm.Init(c.offset, cfg)
	c.sm.SetEnabled(true)
	c.ready = true
	return nil
}

// Close stops the state machine and frees its program, DMA channel and claim.
func (c *Clockless) Close() {
	c.sm.SetEnabled(false)
	c.dma.Unclaim()
	c.sm.PIO().RemoveProgram(c.program, c.offset)
	c.sm.Unclaim()
	c.ready = false
}

func (c *Clockless) Show(buf []byte, count int, scale uint8) error {
	if !c.ready {
		return clockless.ErrNotInitialized
	}
	frame, err := c.enc.Encode(c.frame[:0], buf, count, scale)
	if err != nil {
		return err
	}
	c.frame = frame
	return c.send()
}

func (c *Clockless) ShowColor(col clockless.Color, count int, scale uint8) error {
	if !c.ready {
		return clockless.ErrNotInitialized
	}
	c.frame = c.enc.EncodeColor(c.frame[:0], col, count, scale)
	return c.send()
}

func (c *Clockless) Clear(count int) error {
	return c.ShowColor(clockless.Black, count, 0)
}

func (c *Clockless) Channels() int { return c.enc.Stride() }

func (c *Clockless) SetDither(on bool) { c.enc.Dither = on }

func (c *Clockless) send() error {
	c.latch.Wait()
	var err error
	if c.dma.IsValid() {
		err = c.dma.push8(c.sm.TxReg(), c.frame, dmaPIOTxDREQ(c.sm))
	} else {
		err = c.put(c.frame)
	}
	if err == nil {
		err = c.drain()
	}
	c.latch.Mark()
	return err
}

func (c *Clockless) put(frame []byte) error {
	dl := c.dl.newDeadline()
	i := 0
	for i < len(frame) {
		if c.sm.IsTxFIFOFull() {
			if dl.expired() {
				return errTimeout
			}
			gosched()
			continue
		}
		c.sm.TxPut(uint32(frame[i]) << 24)
		i++
	}
	return nil
}

// drain waits until the state machine has shifted out the last bit and
// stalled with the pin low.
func (c *Clockless) drain() error {
	dl := c.dl.newDeadline()
	for !c.sm.IsTxFIFOEmpty() {
		if dl.expired() {
			return errTimeout
		}
		gosched()
	}
	c.sm.ClearTxStalled()
	for !c.sm.TxStalled() {
		if dl.expired() {
			return errBusy
		}
	}
	return nil
}
