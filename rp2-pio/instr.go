package pio

import (
	"errors"
	"math"
)

// Major opcode bits of the PIO instruction set.
const (
	_INSTR_BITS_JMP  = 0x0000
	_INSTR_BITS_WAIT = 0x2000
	_INSTR_BITS_IN   = 0x4000
	_INSTR_BITS_OUT  = 0x6000
	_INSTR_BITS_PUSH = 0x8000
	_INSTR_BITS_PULL = 0x8080
	_INSTR_BITS_MOV  = 0xa000
	_INSTR_BITS_IRQ  = 0xc000
	_INSTR_BITS_SET  = 0xe000

	// Bit mask for instruction code
	_INSTR_BITS_Msk = 0xe000
)

// Errors returned by the clock divider helpers.
var (
	ErrClkDivTooLarge = errors.New("pio: clkdiv too large for period or CPU frequency")
	ErrClkDivTooSmall = errors.New("pio: clkdiv too small for period or CPU frequency")
)

// MaxDelay returns the largest delay an instruction can carry when
// sideSetBits bits of the delay/side-set field are taken by side-set.
func MaxDelay(sideSetBits uint8) uint8 {
	if sideSetBits > 5 {
		panic("pio:bad side-set count")
	}
	return 1<<(5-sideSetBits) - 1
}

// SrcDest is the source or destination operand of IN, OUT, SET and MOV.
// Not every value is valid for every instruction.
type SrcDest uint8

const (
	SrcDestPins    SrcDest = 0
	SrcDestX       SrcDest = 1
	SrcDestY       SrcDest = 2
	SrcDestNull    SrcDest = 3
	SrcDestPinDirs SrcDest = 4
	SrcDestStatus  SrcDest = 5
	SrcDestPC      SrcDest = 5
	SrcDestISR     SrcDest = 6
	SrcDestOSR     SrcDest = 7
)

type JmpCond uint8

const (
	// No condition, always jumps.
	JmpAlways JmpCond = iota
	// Jump if X is zero.
	JmpXZero
	// Jump if X is not zero, prior to decrement of X.
	JmpXNZeroDec
	// Jump if Y is zero.
	JmpYZero
	// Jump if Y is not zero, prior to decrement of Y.
	JmpYNZeroDec
	// Jump if X is not equal to Y.
	JmpXNotEqualY
	// Jump if EXECCTRL_JMP_PIN (state machine configured) is high.
	JmpPinInput
	// Jump while the OSR still holds bits below the pull threshold.
	JmpOSRNotEmpty
)

func encodeInstrAndArgs(instr uint16, arg1 uint8, arg2 uint8) uint16 {
	return instr | (uint16(arg1&7) << 5) | uint16(arg2&0x1f)
}

func encodeInstrAndSrcDest(instr uint16, dest SrcDest, value uint8) uint16 {
	return encodeInstrAndArgs(instr, uint8(dest), value)
}

// EncodeDelay returns the delay field for an instruction that idles for
// cycles extra cycles after it executes. It panics if cycles does not fit
// next to sideSetBits of side-set.
func EncodeDelay(sideSetBits, cycles uint8) uint16 {
	if cycles > MaxDelay(sideSetBits) {
		panic("pio:delay too long")
	}
	return uint16(cycles) << 8
}

// EncodeSideSet returns the side-set field for value when the program
// declares sideSetBits of mandatory side-set.
func EncodeSideSet(sideSetBits, value uint8) uint16 {
	if sideSetBits == 0 || sideSetBits > 5 {
		panic("pio:bad side-set count")
	}
	return (uint16(value) << (13 - sideSetBits)) & 0x1f00
}

func EncodeJmp(addr uint8, condition JmpCond) uint16 {
	return encodeInstrAndArgs(_INSTR_BITS_JMP, uint8(condition), addr)
}

func EncodeOut(dest SrcDest, bitCount uint8) uint16 {
	return encodeInstrAndSrcDest(_INSTR_BITS_OUT, dest, bitCount)
}

func EncodePull(ifEmpty bool, block bool) uint16 {
	arg := boolAsU8(ifEmpty)<<1 | boolAsU8(block)
	return encodeInstrAndArgs(_INSTR_BITS_PULL, arg, 0)
}

func EncodeMov(dest SrcDest, src SrcDest) uint16 {
	return encodeInstrAndSrcDest(_INSTR_BITS_MOV, dest, uint8(src)&7)
}

func EncodeSet(dest SrcDest, value uint8) uint16 {
	return encodeInstrAndSrcDest(_INSTR_BITS_SET, dest, value)
}

// EncodeNOP returns "mov y, y", the assembler's nop.
func EncodeNOP() uint16 {
	return EncodeMov(SrcDestY, SrcDestY)
}

// ClkDivFromPeriod calculates the CLKDIV register values to reach a given
// state machine cycle period in nanoseconds at cpuFreq Hz. The result is
// truncated; use ClkDivNearest when rounding error matters.
func ClkDivFromPeriod(period, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	//  256*whole + frac = 256*clockfreq*period/1e9
	return SplitClkDiv(256 * uint64(period) * uint64(cpuFreq) / uint64(1e9))
}

// ClkDivFromFrequency calculates the CLKDIV register values
// to reach a given StateMachine cycle frequency. freq and cpuFreq are expected to be in Hz.
func ClkDivFromFrequency(freq, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	//  256*whole + frac = 256*clockfreq / freq
	return SplitClkDiv(256 * uint64(cpuFreq) / uint64(freq))
}

// ClkDivNearest is ClkDivFromPeriod for a period of num/den nanoseconds,
// rounded to the nearest 1/256 of a CPU cycle.
func ClkDivNearest(num, den uint64, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	d := den * 1e9
	return SplitClkDiv((256*num*uint64(cpuFreq) + d/2) / d)
}

// SplitClkDiv splits a divider expressed in 1/256 cycles into the CLKDIV
// integer and fractional parts.
func SplitClkDiv(clkdiv uint64) (whole uint16, frac uint8, err error) {
	if clkdiv > 256*math.MaxUint16 {
		return 0, 0, ErrClkDivTooLarge
	} else if clkdiv < 256 {
		return 0, 0, ErrClkDivTooSmall
	}
	whole = uint16(clkdiv / 256)
	frac = uint8(clkdiv % 256)
	return whole, frac, nil
}

func boolAsU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
