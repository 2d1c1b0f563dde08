//go:build rp2350

package piolib

import (
	"runtime/volatile"

	pio "github.com/fastled/clockless/rp2-pio"
)

// dmaChannel is not wired up on the RP2350 yet; its DMA block has 16
// channels and a different DREQ map. Frames go through the FIFO loop.
type dmaChannel struct {
	dl deadliner
}

func claimDMAChannel() (dmaChannel, bool) { return dmaChannel{}, false }

func (ch *dmaChannel) IsValid() bool { return false }

func (ch *dmaChannel) Unclaim() {}

func dmaPIOTxDREQ(sm pio.StateMachine) uint32 { return 0 }

func (ch *dmaChannel) push8(dst *volatile.Register32, src []byte, dreq uint32) error {
	return errDMAUnavail
}
