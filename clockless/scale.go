package clockless

// div255 returns x/255 for x below 0xffff using only adds and shifts.
func div255(x uint32) uint32 {
	return (x + (x >> 8) + 1) >> 8
}

// Scale8 returns (raw*scale)/255 truncated. Scale 255 leaves raw unchanged
// and scale 0 always gives 0.
func Scale8(raw, scale uint8) uint8 {
	return uint8(div255(uint32(raw) * uint32(scale)))
}

// scaleDither is Scale8 with a dither threshold added before the division.
// t must be at most ditherMax so the result never exceeds 255.
func scaleDither(raw, scale uint8, t uint16) uint8 {
	return uint8(div255(uint32(raw)*uint32(scale) + uint32(t)))
}

// Color is one pixel value. W is ignored by 3-channel strips.
type Color struct {
	R, G, B, W uint8
}

// Common colors.
var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Correction and temperature presets, from the FastLED colour tables.
var (
	UncorrectedColor     = Color{R: 255, G: 255, B: 255}
	TypicalLEDStrip      = Color{R: 255, G: 176, B: 240}
	TypicalSMD5050       = Color{R: 255, G: 176, B: 240}
	Typical8mmPixel      = Color{R: 255, G: 224, B: 140}
	UncorrectedTemp      = Color{R: 255, G: 255, B: 255}
	Candle               = Color{R: 255, G: 147, B: 41}
	Tungsten100W         = Color{R: 255, G: 214, B: 170}
	Halogen              = Color{R: 255, G: 241, B: 224}
	DirectSunlight       = Color{R: 255, G: 255, B: 255}
	OvercastSky          = Color{R: 201, G: 226, B: 255}
	ClearBlueSky         = Color{R: 64, G: 156, B: 255}
	WarmFluorescent      = Color{R: 255, G: 244, B: 229}
	CoolWhiteFluorescent = Color{R: 212, G: 235, B: 255}
)

// ColorAdjustment is a per-channel colour correction and colour temperature,
// applied on top of the global brightness. The zero value means no
// adjustment.
type ColorAdjustment struct {
	Correction  Color
	Temperature Color
}

// Scales premixes the adjustment with brightness into one scale per logical
// channel (R, G, B, W). White only follows brightness.
func (a ColorAdjustment) Scales(brightness uint8) [4]uint8 {
	corr, temp := a.Correction, a.Temperature
	if corr == (Color{}) {
		corr = UncorrectedColor
	}
	if temp == (Color{}) {
		temp = UncorrectedTemp
	}
	return [4]uint8{
		Scale8(Scale8(corr.R, temp.R), brightness),
		Scale8(Scale8(corr.G, temp.G), brightness),
		Scale8(Scale8(corr.B, temp.B), brightness),
		brightness,
	}
}

const (
	// ditherBits is how many frames, as a power of two, one dither cycle
	// spans. Eight frames at 400 Hz keeps the cycle above 50 Hz.
	ditherBits = 3
	// ditherMax is the largest threshold; per-pixel stepping maps t to
	// ditherMax-t.
	ditherMax = 254
)

// DitherState is the per-controller temporal dither counter. It advances once
// per frame.
type DitherState struct {
	frame uint8
}

// Advance steps to the next frame and returns its dither threshold in
// 0..ditherMax. The frame counter is bit reversed so consecutive frames land
// far apart in the threshold range.
func (d *DitherState) Advance() uint16 {
	d.frame = (d.frame + 1) & (1<<ditherBits - 1)
	q := reverse8(d.frame) + 1<<(7-ditherBits)
	if q > ditherMax {
		q = ditherMax
	}
	return uint16(q)
}

func reverse8(b uint8) uint8 {
	b = b>>4 | b<<4
	b = (b&0xcc)>>2 | (b&0x33)<<2
	b = (b&0xaa)>>1 | (b&0x55)<<1
	return b
}
