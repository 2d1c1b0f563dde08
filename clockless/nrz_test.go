package clockless

import (
	"bytes"
	"testing"
)

func TestEncodeNRZ(t *testing.T) {
	for _, tt := range []struct {
		in   byte
		want []byte
	}{
		// 100 100 100 100 100 100 100 100
		{0x00, []byte{0x92, 0x49, 0x24}},
		// 110 110 110 110 110 110 110 110
		{0xff, []byte{0xdb, 0x6d, 0xb6}},
		// 110 100 100 100 100 100 100 100
		{0x80, []byte{0xd2, 0x49, 0x24}},
		// 100 100 100 100 100 100 100 110
		{0x01, []byte{0x92, 0x49, 0x26}},
	} {
		if got := EncodeNRZ(nil, []byte{tt.in}); !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeNRZ(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestNRZRoundTrip(t *testing.T) {
	src := make([]byte, 256)
	for i := range src {
		src[i] = byte(i)
	}
	got, err := DecodeNRZ(EncodeNRZ(nil, src))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("DecodeNRZ(EncodeNRZ(x)) = %#x, want %#x", got, src)
	}
}

func TestDecodeNRZInvalid(t *testing.T) {
	for _, in := range [][]byte{{0x92, 0x49}, {0xff, 0xff, 0xff}, {0x00, 0x00, 0x00}} {
		if _, err := DecodeNRZ(in); err == nil {
			t.Errorf("DecodeNRZ(%#x) succeeded", in)
		}
	}
}

func TestNRZRate(t *testing.T) {
	if got := NRZRate(WS2812.Timing); got != 2_400_000 {
		t.Errorf("NRZRate(WS2812) = %d, want 2400000", got)
	}
	if got := NRZRate(TimingSpec{}); got != 0 {
		t.Errorf("NRZRate(zero) = %d, want 0", got)
	}
}
