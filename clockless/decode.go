package clockless

import (
	"fmt"
	"time"
)

// Bit is one decoded bit. High and Low are in cycles; Low is 0 for the last
// bit of a frame, whose low phase runs into the reset.
type Bit struct {
	Value     bool
	High, Low uint32
	// Critical is false if any edge of the bit happened outside a critical
	// section.
	Critical bool
}

// Frame is the bits between two resets.
type Frame struct {
	Bits []Bit
	// Gap is the low time before the frame in cycles, 0 for the first.
	Gap uint64
}

// Bytes packs the bits MSB first. Trailing bits that do not fill a byte are
// dropped.
func (f Frame) Bytes() []byte {
	out := make([]byte, 0, len(f.Bits)/8)
	for i := 0; i+8 <= len(f.Bits); i += 8 {
		var b byte
		for _, bit := range f.Bits[i : i+8] {
			b <<= 1
			if bit.Value {
				b |= 1
			}
		}
		out = append(out, b)
	}
	return out
}

// Decode splits recorded edges into frames. A low time of reset cycles or
// more ends a frame. A bit is a 1 if its high time is closer to T1+T2 than
// to T1.
func Decode(edges []Edge, ct CycleTiming, reset uint64) []Frame {
	threshold := uint64(ct.T1) + uint64(ct.T2)/2
	var (
		frames []Frame
		cur    *Frame
	)
	for i := 0; i < len(edges); i++ {
		rise := edges[i]
		if !rise.Level {
			continue
		}
		var gap uint64
		if i > 0 {
			gap = rise.At - edges[i-1].At
		}
		if cur == nil || gap >= reset {
			frames = append(frames, Frame{Gap: gap})
			cur = &frames[len(frames)-1]
		} else {
			prev := &cur.Bits[len(cur.Bits)-1]
			prev.Low = uint32(gap)
		}
		if i+1 >= len(edges) {
			break
		}
		fall := edges[i+1]
		high := fall.At - rise.At
		cur.Bits = append(cur.Bits, Bit{
			Value:    high > threshold,
			High:     uint32(high),
			Critical: rise.Critical && fall.Critical,
		})
		i++
	}
	return frames
}

// CheckBit reports an error if b's phases are further than tol cycles from
// the timing of its value. A zero Low is not checked.
func CheckBit(b Bit, ct CycleTiming, tol uint32) error {
	wantHigh, wantLow := ct.T1, ct.T2+ct.T3
	if b.Value {
		wantHigh, wantLow = ct.T1+ct.T2, ct.T3
	}
	if absDiff(b.High, wantHigh) > tol {
		return fmt.Errorf("high %v, want %v", ct.Duration(b.High), ct.Duration(wantHigh))
	}
	if b.Low != 0 && absDiff(b.Low, wantLow) > tol {
		return fmt.Errorf("low %v, want %v", ct.Duration(b.Low), ct.Duration(wantLow))
	}
	return nil
}

// Tolerance converts a time tolerance to cycles at ct.Hz, rounding down.
func Tolerance(ct CycleTiming, d time.Duration) uint32 {
	return uint32(uint64(d) * uint64(ct.Hz) / uint64(time.Second))
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
