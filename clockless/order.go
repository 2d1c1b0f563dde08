package clockless

import (
	"fmt"
	"strings"
)

// ChannelOrder is the order in which the red, green and blue bytes of a
// pixel go out on the wire. Each octal digit, most significant first, is the
// buffer offset of the byte sent at that position, so GRB = 0o102 sends
// offset 1 (green), then 0 (red), then 2 (blue).
//
// A white byte, when the strip has one, is always sent fourth.
type ChannelOrder uint16

const (
	RGB ChannelOrder = 0o012
	RBG ChannelOrder = 0o021
	GRB ChannelOrder = 0o102
	GBR ChannelOrder = 0o120
	BRG ChannelOrder = 0o201
	BGR ChannelOrder = 0o210
)

// ChannelOrders lists the six permutations.
var ChannelOrders = [...]ChannelOrder{RGB, RBG, GRB, GBR, BRG, BGR}

// Offset returns the buffer offset of the byte sent at position pos (0..3).
func (o ChannelOrder) Offset(pos int) uint8 {
	if pos == 3 {
		return 3
	}
	return uint8(o>>(3*(2-pos))) & 3
}

// Offsets returns Offset for every transmit position.
func (o ChannelOrder) Offsets() [4]uint8 {
	return [4]uint8{o.Offset(0), o.Offset(1), o.Offset(2), 3}
}

// Valid reports whether o is one of the six permutations.
func (o ChannelOrder) Valid() bool {
	for _, v := range ChannelOrders {
		if o == v {
			return true
		}
	}
	return false
}

func (o ChannelOrder) String() string {
	if !o.Valid() {
		return fmt.Sprintf("ChannelOrder(%#o)", uint16(o))
	}
	const names = "RGB"
	var b [3]byte
	for pos := range b {
		b[pos] = names[o.Offset(pos)]
	}
	return string(b[:])
}

// ParseChannelOrder parses "GRB", "rgb" or "GRBW". A trailing W is accepted
// and ignored since white always goes last.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	up = strings.TrimSuffix(up, "W")
	for _, o := range ChannelOrders {
		if o.String() == up {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadChannelOrder, s)
}
