package clockless

import (
	"errors"
	"testing"
)

func TestChannelOrderOffsets(t *testing.T) {
	for _, tt := range []struct {
		order ChannelOrder
		name  string
		want  [4]uint8
	}{
		{RGB, "RGB", [4]uint8{0, 1, 2, 3}},
		{RBG, "RBG", [4]uint8{0, 2, 1, 3}},
		{GRB, "GRB", [4]uint8{1, 0, 2, 3}},
		{GBR, "GBR", [4]uint8{1, 2, 0, 3}},
		{BRG, "BRG", [4]uint8{2, 0, 1, 3}},
		{BGR, "BGR", [4]uint8{2, 1, 0, 3}},
	} {
		if got := tt.order.Offsets(); got != tt.want {
			t.Errorf("%s.Offsets() = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.order.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		parsed, err := ParseChannelOrder(tt.name + "w")
		if err != nil || parsed != tt.order {
			t.Errorf("ParseChannelOrder(%q) = %v, %v, want %v", tt.name+"w", parsed, err, tt.order)
		}
	}
}

func TestChannelOrderInvalid(t *testing.T) {
	if ChannelOrder(0o777).Valid() {
		t.Error("0o777 reported valid")
	}
	if got := ChannelOrder(0o777).String(); got != "ChannelOrder(0777)" {
		t.Errorf("String() = %q", got)
	}
	for _, s := range []string{"", "RG", "RRB", "XYZ", "W"} {
		if _, err := ParseChannelOrder(s); !errors.Is(err, ErrBadChannelOrder) {
			t.Errorf("ParseChannelOrder(%q) error = %v, want ErrBadChannelOrder", s, err)
		}
	}
}
