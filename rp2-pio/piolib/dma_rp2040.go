//go:build rp2040

package piolib

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"

	pio "github.com/fastled/clockless/rp2-pio"
)

// dmaChannel is a claimed DMA channel. The zero value is no channel.
type dmaChannel struct {
	hw      *dmaChannelHW
	channel uint8
	dl      deadliner
}

// Single DMA channel. See rp.DMA_Type.
type dmaChannelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32 // aliases
}

// DMA channels usable on the RP2040.
var dmaChannels = (*[12]dmaChannelHW)(unsafe.Pointer(rp.DMA))

var dmaClaimed uint16

// claimDMAChannel claims the highest free channel. The low channels are
// left for drivers that assign them statically.
func claimDMAChannel() (dmaChannel, bool) {
	for ch := uint8(len(dmaChannels)) - 1; ch < uint8(len(dmaChannels)); ch-- {
		if dmaClaimed&(1<<ch) == 0 {
			dmaClaimed |= 1 << ch
			return dmaChannel{hw: &dmaChannels[ch], channel: ch}, true
		}
	}
	return dmaChannel{}, false
}

func (ch *dmaChannel) IsValid() bool { return ch.hw != nil }

// Unclaim releases the channel and invalidates ch.
func (ch *dmaChannel) Unclaim() {
	if ch.hw == nil {
		return
	}
	ch.abort()
	dmaClaimed &^= 1 << ch.channel
	*ch = dmaChannel{}
}

const (
	_DREQ_PIO0_TX0 = 0x0
	_DREQ_PIO1_TX0 = 0x8
)

// dmaPIOTxDREQ returns the data request line paced by sm's TX FIFO.
func dmaPIOTxDREQ(sm pio.StateMachine) uint32 {
	base := uint32(_DREQ_PIO0_TX0)
	if sm.PIO().BlockIndex() == 1 {
		base = _DREQ_PIO1_TX0
	}
	return base + uint32(sm.StateMachineIndex())
}

type dmaTxSize uint32

const (
	dmaTxSize8 dmaTxSize = iota
	dmaTxSize16
	dmaTxSize32
)

type dmaChannelConfig struct {
	CTRL uint32
}

// push8 writes each byte of src to the 32 bit register at dst, paced by
// dreq, and waits for the transfer to finish. Byte writes are replicated
// across all four byte lanes of the bus, so a left shifting state machine
// sees each byte in the top of its OSR.
func (ch *dmaChannel) push8(dst *volatile.Register32, src []byte, dreq uint32) error {
	if len(src) == 0 {
		return nil
	}
	hw := ch.hw
	hw.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(&src[0]))))
	hw.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(dst))))
	hw.TRANS_COUNT.Set(uint32(len(src)))
	var cc dmaChannelConfig
	cc.setRing(false, 0)
	cc.setBSwap(false)
	cc.setIRQQuiet(true)
	cc.setHighPriority(true)
	cc.setTREQ_SEL(dreq)
	cc.setTransferDataSize(dmaTxSize8)
	cc.setChainTo(uint32(ch.channel))
	cc.setReadIncrement(true)
	cc.setWriteIncrement(false)
	cc.setEnable(true)
	hw.CTRL_TRIG.Set(cc.CTRL)

	dl := ch.dl.newDeadline()
	for ch.busy() {
		if dl.expired() {
			ch.abort()
			return errTimeout
		}
		gosched()
	}
	return nil
}

// abort aborts the current transfer sequence on the channel and blocks until
// all in-flight transfers have been flushed through the address and data FIFOs.
// After this, it is safe to restart the channel.
func (ch *dmaChannel) abort() {
	chMask := uint32(1 << ch.channel)
	rp.DMA.CHAN_ABORT.Set(chMask)
	retries := timeoutRetries
	for rp.DMA.CHAN_ABORT.Get()&chMask != 0 && retries > 0 {
		gosched()
		retries--
	}
}

func (ch *dmaChannel) busy() bool {
	return ch.hw.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_BUSY != 0
}

// Select a Transfer Request signal. The channel uses the transfer request signal
// to pace its data transfer rate. Sources for TREQ signals are internal (TIMERS)
// or external (DREQ, a Data Request from the system). 0x0 to 0x3a -> select DREQ n as TREQ
func (cc *dmaChannelConfig) setTREQ_SEL(dreq uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Msk)) | (uint32(dreq) << rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)
}

func (cc *dmaChannelConfig) setChainTo(chainTo uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Msk)) | (chainTo << rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos)
}

func (cc *dmaChannelConfig) setTransferDataSize(size dmaTxSize) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Msk)) | (uint32(size) << rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos)
}

func (cc *dmaChannelConfig) setRing(write bool, sizeBits uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_RING_SIZE_Msk)) |
		(sizeBits << rp.DMA_CH0_CTRL_TRIG_RING_SIZE_Pos)
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_RING_SEL_Pos, write)
}

func (cc *dmaChannelConfig) setReadIncrement(incr bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_INCR_READ_Pos, incr)
}

func (cc *dmaChannelConfig) setWriteIncrement(incr bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_INCR_WRITE_Pos, incr)
}

func (cc *dmaChannelConfig) setBSwap(bswap bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_BSWAP_Pos, bswap)
}

func (cc *dmaChannelConfig) setIRQQuiet(irqQuiet bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_IRQ_QUIET_Pos, irqQuiet)
}

func (cc *dmaChannelConfig) setHighPriority(highPriority bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_HIGH_PRIORITY_Pos, highPriority)
}

func (cc *dmaChannelConfig) setEnable(enable bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_EN_Pos, enable)
}

func setBitPos(cc *uint32, pos uint32, bit bool) {
	if bit {
		*cc = *cc | (1 << pos)
	} else {
		*cc = *cc & ^(1 << pos) // unset bit.
	}
}
