package clockless

import (
	"errors"
	"time"
)

// NRZ encoding sends every data bit as three line bits, 110 for a 1 and 100
// for a 0, so a peripheral shifting at three times the bit rate reproduces
// the clockless waveform with T1 = T2 = T3 = one line bit.

var errNRZSymbol = errors.New("clockless: invalid NRZ symbol")

// NRZRate returns the line bit rate in Hz for ts, three line bits per
// data bit.
func NRZRate(ts TimingSpec) uint32 {
	p := ts.Period()
	if p <= 0 {
		return 0
	}
	return uint32(3 * time.Second / p)
}

// expandNRZ returns the 24 line bits of b in the low bits of the result.
func expandNRZ(b byte) uint32 {
	var out uint32
	for i := 7; i >= 0; i-- {
		out <<= 3
		if b&(1<<i) != 0 {
			out |= 0b110
		} else {
			out |= 0b100
		}
	}
	return out
}

// EncodeNRZ appends the line bits of src to dst, three bytes per input byte,
// MSB first.
func EncodeNRZ(dst, src []byte) []byte {
	for _, b := range src {
		v := expandNRZ(b)
		dst = append(dst, byte(v>>16), byte(v>>8), byte(v))
	}
	return dst
}

// DecodeNRZ reverses EncodeNRZ. len(src) must be a multiple of 3.
func DecodeNRZ(src []byte) ([]byte, error) {
	if len(src)%3 != 0 {
		return nil, errNRZSymbol
	}
	out := make([]byte, 0, len(src)/3)
	for i := 0; i < len(src); i += 3 {
		v := uint32(src[i])<<16 | uint32(src[i+1])<<8 | uint32(src[i+2])
		var b byte
		for j := 7; j >= 0; j-- {
			b <<= 1
			switch (v >> (3 * j)) & 7 {
			case 0b110:
				b |= 1
			case 0b100:
			default:
				return nil, errNRZSymbol
			}
		}
		out = append(out, b)
	}
	return out, nil
}
