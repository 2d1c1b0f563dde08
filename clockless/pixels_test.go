package clockless

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameEncoder(t *testing.T) {
	for _, tt := range []struct {
		name  string
		enc   FrameEncoder
		buf   []byte
		count int
		scale uint8
		want  []byte
	}{
		{"grb", FrameEncoder{Order: GRB}, []byte{1, 2, 3, 4, 5, 6}, 2, 255, []byte{2, 1, 3, 5, 4, 6}},
		{"rgbw", FrameEncoder{Order: BGR, Channels: 4}, []byte{1, 2, 3, 4}, 1, 255, []byte{3, 2, 1, 4}},
		{"count below buffer", FrameEncoder{Order: RGB}, []byte{1, 2, 3, 4, 5, 6}, 1, 255, []byte{1, 2, 3}},
		{"half", FrameEncoder{Order: RGB}, []byte{255, 100, 2}, 1, 128, []byte{128, 50, 1}},
		{"corrected", FrameEncoder{Order: RGB, Adjust: ColorAdjustment{Correction: TypicalLEDStrip}}, []byte{255, 255, 255}, 1, 255, []byte{255, 176, 240}},
		{"negative count", FrameEncoder{Order: RGB}, nil, -1, 255, nil},
		{"zero order is rgb", FrameEncoder{}, []byte{1, 2, 3}, 1, 255, []byte{1, 2, 3}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.enc.Encode(nil, tt.buf, tt.count, tt.scale)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameEncoderShortBuffer(t *testing.T) {
	enc := FrameEncoder{Order: RGB, Channels: 4}
	if _, err := enc.Encode(nil, make([]byte, 7), 2, 255); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Encode() error = %v, want ErrShortBuffer", err)
	}
}

func TestEncodeColor(t *testing.T) {
	enc := FrameEncoder{Order: GRB}
	got := enc.EncodeColor(nil, Color{R: 10, G: 20, B: 30}, 3, 255)
	want := bytes.Repeat([]byte{20, 10, 30}, 3)
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeColor() = %v, want %v", got, want)
	}
}

func TestPinMap(t *testing.T) {
	h := RP2040Pins.Resolve(16)
	if h.Set != 0xd0000014 || h.Clear != 0xd0000018 || h.Mask != 1<<16 {
		t.Errorf("Resolve(16) = %#x/%#x/%#x", h.Set, h.Clear, h.Mask)
	}
	if h := RP2350Pins.Resolve(0); h.Set != 0xd0000018 || h.Clear != 0xd0000020 || h.Mask != 1 {
		t.Errorf("RP2350 Resolve(0) = %#x/%#x/%#x", h.Set, h.Clear, h.Mask)
	}
	if (PinHandle{Set: 1, Clear: 2, Mask: 3}).Valid() {
		t.Error("two bit mask reported valid")
	}
	for _, pin := range []int{-1, 30} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Resolve(%d) did not panic", pin)
				}
			}()
			RP2040Pins.Resolve(pin)
		}()
	}
}
