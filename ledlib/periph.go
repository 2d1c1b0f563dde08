//go:build !tinygo

package ledlib

import (
	"errors"
	"fmt"

	"github.com/fastled/clockless/clockless"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

var _ Bus = spi.Conn(nil)

// ErrNoStream is returned when a GPIO cannot stream bits.
var ErrNoStream = errors.New("ledlib: pin does not support bit streaming")

// StreamPin is a GPIO that can clock out a bit stream in hardware, such as a
// periph PCM or PWM backed pin.
type StreamPin interface {
	Out(l gpio.Level) error
	StreamOut(s gpiostream.Stream) error
}

// Stream drives a clockless strip from a Linux GPIO through periph's
// gpiostream, three line bits per data bit.
type Stream struct {
	buffered
	pin  StreamPin
	bits gpiostream.BitStream
}

var _ clockless.Controller = (*Stream)(nil)

// NewStream returns a gpiostream controller on pin.
func NewStream(pin StreamPin, cfg clockless.Config) (*Stream, error) {
	hz := clockless.NRZRate(cfg.Chipset.Timing)
	if hz == 0 {
		return nil, fmt.Errorf("%w: %s has no bit period", clockless.ErrTimingUnrealizable, cfg.Chipset.Name)
	}
	s := &Stream{
		pin:  pin,
		bits: gpiostream.BitStream{Freq: physic.Frequency(hz) * physic.Hertz},
	}
	var err error
	s.buffered, err = newBuffered(cfg, s.idle, s.stream)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenStream looks up a GPIO by name in the periph registry. host.Init must
// have been called.
func OpenStream(name string, cfg clockless.Config) (*Stream, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("ledlib: unknown gpio %q", name)
	}
	sp, ok := p.(StreamPin)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStream, name)
	}
	return NewStream(sp, cfg)
}

func (s *Stream) idle() error { return s.pin.Out(gpio.Low) }

func (s *Stream) stream(frame []byte) error {
	s.bits.Bits = clockless.EncodeNRZ(s.bits.Bits[:0], frame)
	s.bits.Bits = append(s.bits.Bits, 0)
	return s.pin.StreamOut(&s.bits)
}

// OpenSPI opens an SPI port by name in the periph registry, connects it at
// the NRZ rate of cfg's chipset and returns the controller with the port to
// close when done. host.Init must have been called.
func OpenSPI(name string, cfg clockless.Config) (*SPI, spi.PortCloser, error) {
	hz := clockless.NRZRate(cfg.Chipset.Timing)
	port, err := spireg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("ledlib: open spi %q: %w", name, err)
	}
	conn, err := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("ledlib: connect spi %q at %d Hz: %w", name, hz, err)
	}
	c, err := NewSPI(conn, cfg)
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return c, port, nil
}
