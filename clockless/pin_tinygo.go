//go:build tinygo && baremetal

package clockless

import (
	"machine"
	"runtime/volatile"
	"unsafe"
)

// RegisterPort is a Port backed by memory mapped set/clear registers.
type RegisterPort struct {
	pin  machine.Pin
	set  *volatile.Register32
	clr  *volatile.Register32
	mask uint32
}

// NewRegisterPort returns a port for pin writing through h. It panics if h is
// not a valid handle.
func NewRegisterPort(pin machine.Pin, h PinHandle) RegisterPort {
	if !h.Valid() {
		panic(badPin)
	}
	return RegisterPort{
		pin:  pin,
		set:  (*volatile.Register32)(unsafe.Pointer(h.Set)),
		clr:  (*volatile.Register32)(unsafe.Pointer(h.Clear)),
		mask: h.Mask,
	}
}

func (p RegisterPort) SetOutput() {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.clr.Set(p.mask)
}

func (p RegisterPort) Set()   { p.set.Set(p.mask) }
func (p RegisterPort) Clear() { p.clr.Set(p.mask) }
