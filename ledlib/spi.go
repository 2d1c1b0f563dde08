package ledlib

import (
	"fmt"

	"github.com/fastled/clockless/clockless"
	"tinygo.org/x/drivers"
)

// Bus is the transmit half of an SPI bus. Both drivers.SPI and a periph
// spi.Conn satisfy it.
type Bus interface {
	Tx(w, r []byte) error
}

var _ Bus = drivers.SPI(nil)

// SPI drives a clockless strip from the MOSI line of an SPI bus. Every data
// bit becomes three line bits, so the bus must run at Frequency; the strip's
// data input goes on MOSI and the clock pin is left unconnected.
type SPI struct {
	buffered
	bus  Bus
	hz   uint32
	line []byte
}

var _ clockless.Controller = (*SPI)(nil)

// NewSPI returns an SPI controller. The bus must already be configured at
// the rate Frequency reports.
func NewSPI(bus Bus, cfg clockless.Config) (*SPI, error) {
	hz := clockless.NRZRate(cfg.Chipset.Timing)
	if hz == 0 {
		return nil, fmt.Errorf("%w: %s has no bit period", clockless.ErrTimingUnrealizable, cfg.Chipset.Name)
	}
	s := &SPI{bus: bus, hz: hz}
	var err error
	s.buffered, err = newBuffered(cfg, nil, s.tx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Frequency returns the SPI clock in Hz the bus must run at.
func (s *SPI) Frequency() uint32 { return s.hz }

func (s *SPI) tx(frame []byte) error {
	s.line = clockless.EncodeNRZ(s.line[:0], frame)
	// Some controllers leave MOSI at the last bit between transfers; end low.
	s.line = append(s.line, 0)
	return s.bus.Tx(s.line, nil)
}
