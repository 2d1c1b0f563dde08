package clockless

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Strip is a pixel buffer bound to its controller. It implements
// drivers.Displayer so text and graphics libraries can draw on a strip as a
// one row display.
type Strip struct {
	c     Controller
	buf   []byte
	count int
	reg   *Registry
}

var _ drivers.Displayer = (*Strip)(nil)

// NewStrip binds count pixels of buf to c. It panics if buf is too short.
func NewStrip(c Controller, buf []byte, count int) *Strip {
	if len(buf) < count*c.Channels() {
		panic("clockless: strip buffer too short")
	}
	return &Strip{c: c, buf: buf[:count*c.Channels()], count: count}
}

// Controller returns the strip's controller.
func (s *Strip) Controller() Controller { return s.c }

// Len returns the number of pixels.
func (s *Strip) Len() int { return s.count }

// Pixels returns the raw R, G, B[, W] buffer.
func (s *Strip) Pixels() []byte { return s.buf }

// Set sets pixel i. Out of range indices are ignored.
func (s *Strip) Set(i int, c Color) {
	if i < 0 || i >= s.count {
		return
	}
	stride := s.c.Channels()
	px := s.buf[i*stride : i*stride+stride]
	px[0], px[1], px[2] = c.R, c.G, c.B
	if stride == 4 {
		px[3] = c.W
	}
}

// Get returns pixel i.
func (s *Strip) Get(i int) Color {
	if i < 0 || i >= s.count {
		return Black
	}
	stride := s.c.Channels()
	px := s.buf[i*stride : i*stride+stride]
	c := Color{R: px[0], G: px[1], B: px[2]}
	if stride == 4 {
		c.W = px[3]
	}
	return c
}

// Fill sets every pixel to c.
func (s *Strip) Fill(c Color) {
	for i := 0; i < s.count; i++ {
		s.Set(i, c)
	}
}

func (s *Strip) Size() (x, y int16) {
	return int16(s.count), 1
}

// SetPixel implements drivers.Displayer. Alpha is ignored.
func (s *Strip) SetPixel(x, y int16, c color.RGBA) {
	if y != 0 {
		return
	}
	s.Set(int(x), Color{R: c.R, G: c.G, B: c.B})
}

// Display sends the buffer at the registry brightness, or at full scale if
// the strip was not added to a registry.
func (s *Strip) Display() error {
	return s.c.Show(s.buf, s.count, s.brightness())
}

func (s *Strip) brightness() uint8 {
	if s.reg == nil {
		return 255
	}
	return s.reg.brightness
}
