package clockless

import "fmt"

// pixels walks a frame for the bit engine, yielding wire-order bytes already
// scaled and dithered.
type pixels struct {
	data    []byte
	advance int
	left    int
	chans   int
	offs    [4]uint8
	scale   [4]uint8
	t       uint16
	flip    uint16
}

// load returns the byte sent at transmit position pos of the current pixel.
func (p *pixels) load(pos int) uint8 {
	return scaleDither(p.data[p.offs[pos]], p.scale[pos], p.t)
}

// next moves to the following pixel and flips the dither threshold.
func (p *pixels) next() {
	p.data = p.data[p.advance:]
	p.left--
	p.t = p.flip - p.t
}

// FrameEncoder holds the per-strip settings that turn a pixel buffer into
// the bytes sent on the wire: channel order, channel count, colour
// adjustment and temporal dithering. Pixel buffers are always R, G, B[, W].
// A zero Order sends RGB; Config.Encoder fills in the chipset order.
type FrameEncoder struct {
	Order    ChannelOrder
	Channels int
	Adjust   ColorAdjustment
	Dither   bool

	state DitherState
}

// Stride returns the bytes per pixel of the buffer and of the wire.
func (e *FrameEncoder) Stride() int {
	if e.Channels == 4 {
		return 4
	}
	return 3
}

// begin prepares an iterator over count pixels starting at data. advance is
// the buffer stride, or 0 to repeat one pixel.
func (e *FrameEncoder) begin(data []byte, advance, count int, scale uint8) pixels {
	order := e.Order
	if order == 0 {
		order = RGB
	}
	p := pixels{
		data:    data,
		advance: advance,
		left:    count,
		chans:   e.Stride(),
		offs:    order.Offsets(),
	}
	scales := e.Adjust.Scales(scale)
	for pos := range p.scale {
		p.scale[pos] = scales[p.offs[pos]]
	}
	if e.Dither {
		p.t = e.state.Advance()
		p.flip = ditherMax
	}
	return p
}

// frame validates the buffer and returns an iterator over it.
func (e *FrameEncoder) frame(buf []byte, count int, scale uint8) (pixels, error) {
	if count < 0 {
		count = 0
	}
	need := count * e.Stride()
	if len(buf) < need {
		return pixels{}, fmt.Errorf("%w: %d pixels need %d bytes, have %d",
			ErrShortBuffer, count, need, len(buf))
	}
	return e.begin(buf[:need], e.Stride(), count, scale), nil
}

// color returns an iterator repeating c count times.
func (e *FrameEncoder) color(c Color, count int, scale uint8) pixels {
	if count < 0 {
		count = 0
	}
	buf := []byte{c.R, c.G, c.B, c.W}
	return e.begin(buf, 0, count, scale)
}

// Encode appends the wire bytes of count pixels from buf to dst.
func (e *FrameEncoder) Encode(dst, buf []byte, count int, scale uint8) ([]byte, error) {
	p, err := e.frame(buf, count, scale)
	if err != nil {
		return dst, err
	}
	return p.appendTo(dst), nil
}

// EncodeColor appends the wire bytes of c repeated count times to dst.
func (e *FrameEncoder) EncodeColor(dst []byte, c Color, count int, scale uint8) []byte {
	p := e.color(c, count, scale)
	return p.appendTo(dst)
}

func (p *pixels) appendTo(dst []byte) []byte {
	for p.left > 0 {
		for pos := 0; pos < p.chans; pos++ {
			dst = append(dst, p.load(pos))
		}
		p.next()
	}
	return dst
}
