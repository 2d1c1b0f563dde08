// Package ledlib holds clockless LED controllers that do not bit-bang a pin:
// they encode a whole frame up front and hand it to a peripheral that keeps
// the timing, such as an SPI bus shifting NRZ symbols or a Linux GPIO
// streaming engine.
package ledlib

import (
	"github.com/fastled/clockless/clockless"
)

// buffered implements clockless.Controller for backends that send one
// encoded frame per call.
type buffered struct {
	enc   clockless.FrameEncoder
	latch clockless.ReenableWindow
	frame []byte
	ready bool
	setup func() error
	write func(frame []byte) error
}

func newBuffered(cfg clockless.Config, setup func() error, write func([]byte) error) (buffered, error) {
	enc, err := cfg.Encoder()
	if err != nil {
		return buffered{}, err
	}
	return buffered{
		enc:   enc,
		latch: cfg.Window(),
		setup: setup,
		write: write,
	}, nil
}

func (b *buffered) Init() error {
	if b.setup != nil {
		if err := b.setup(); err != nil {
			return err
		}
	}
	b.ready = true
	return nil
}

func (b *buffered) Show(buf []byte, count int, scale uint8) error {
	if !b.ready {
		return clockless.ErrNotInitialized
	}
	frame, err := b.enc.Encode(b.frame[:0], buf, count, scale)
	if err != nil {
		return err
	}
	b.frame = frame
	return b.send()
}

func (b *buffered) ShowColor(c clockless.Color, count int, scale uint8) error {
	if !b.ready {
		return clockless.ErrNotInitialized
	}
	b.frame = b.enc.EncodeColor(b.frame[:0], c, count, scale)
	return b.send()
}

func (b *buffered) Clear(count int) error {
	return b.ShowColor(clockless.Black, count, 0)
}

func (b *buffered) Channels() int { return b.enc.Stride() }

func (b *buffered) SetDither(on bool) { b.enc.Dither = on }

func (b *buffered) send() error {
	b.latch.Wait()
	err := b.write(b.frame)
	b.latch.Mark()
	return err
}
