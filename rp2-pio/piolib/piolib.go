// Package piolib drives clockless LED strips from an RP2 PIO state machine.
// The bit timing runs in the PIO program, so frames are sent with interrupts
// enabled and, on the RP2040, by DMA straight from the encoded frame.
package piolib

import (
	"errors"
	"math"
	"runtime"
	"time"
)

const timeoutRetries = math.MaxUint16 * 8

var (
	errTimeout    = errors.New("piolib:timeout")
	errBusy       = errors.New("piolib:busy")
	errDMAUnavail = errors.New("piolib:DMA channel unavailable")
)

func gosched() {
	runtime.Gosched()
}

type deadline struct {
	t time.Time
}

func (dl deadline) expired() bool {
	if dl.t.IsZero() {
		return false
	}
	return time.Since(dl.t) > 0
}

// deadliner hands out deadlines a fixed timeout from now. The timeout is
// rounded up to a power of two nanoseconds.
type deadliner struct {
	// timeout is a bitshift value for the timeout.
	timeout uint8
}

func (ch deadliner) newDeadline() deadline {
	var t time.Time
	if ch.timeout != 0 {
		calc := time.Duration(1 << ch.timeout)
		t = time.Now().Add(calc)
	}
	return deadline{t: t}
}

func (ch *deadliner) setTimeout(timeout time.Duration) {
	if timeout <= 0 {
		ch.timeout = 0
		return // No timeout.
	}
	for i := uint8(1); i < 63; i++ {
		calc := time.Duration(1 << i)
		if calc >= timeout {
			ch.timeout = i
			return
		}
	}
	ch.timeout = 62
}
