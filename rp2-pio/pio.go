//go:build rp2040 || rp2350

package pio

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// PIO peripheral handles present on every RP2 chip.
var (
	PIO0 = &PIO{
		hw: rp.PIO0,
	}
	PIO1 = &PIO{
		hw: rp.PIO1,
	}
)

// PIO errors.
var (
	ErrOutOfProgramSpace   = errors.New("pio: out of program space")
	ErrNoSpaceAtOffset     = errors.New("pio: program space unavailable at offset")
	errStateMachineClaimed = errors.New("pio: state machine already claimed")
)

const (
	badStateMachineIndex = "invalid state machine index"
	badPIO               = "invalid PIO"
	badProgramBounds     = "invalid program bounds"
)

// PIO is one programmable IO block. A block has 32 words of instruction
// memory shared by its four state machines.
type PIO struct {
	hw *rp.PIO0_Type
	// Bitmask of used instruction space.
	usedSpaceMask uint32
	// Bitmask of claimed state machines.
	claimedSMMask uint8
	nc            noCopy
}

// BlockIndex returns 0, 1, or 2 depending on whether the underlying device is PIO0, PIO1, or PIO2.
func (pio *PIO) BlockIndex() uint8 {
	return pio.blockIndex()
}

// StateMachine returns a state machine by index.
func (pio *PIO) StateMachine(index uint8) StateMachine {
	if index > 3 {
		panic(badStateMachineIndex)
	}
	return StateMachine{
		pio:   pio,
		index: index,
	}
}

// ClaimStateMachine returns an unused state machine
// or an error if all state machines on this PIO are claimed.
func (pio *PIO) ClaimStateMachine() (sm StateMachine, err error) {
	for i := uint8(0); i < 4; i++ {
		sm = pio.StateMachine(i)
		if sm.TryClaim() {
			return sm, nil
		}
	}
	return StateMachine{}, errStateMachineClaimed
}

// AddProgram loads a program into the first free slot, searching down from
// the top of instruction memory, and returns the offset it was loaded at.
// Jump targets in instructions are relative to the start of the program.
// origin pins the program to an offset, or is -1 for relocatable code.
func (pio *PIO) AddProgram(instructions []uint16, origin int8) (offset uint8, _ error) {
	maybeOffset := pio.findOffsetForProgram(instructions, origin)
	if maybeOffset < 0 {
		return 0, ErrOutOfProgramSpace
	}
	offset = uint8(maybeOffset)
	return offset, pio.AddProgramAtOffset(instructions, origin, offset)
}

// AddProgramAtOffset loads a program at a specific offset and returns
// ErrNoSpaceAtOffset if any of the words it needs are taken.
func (pio *PIO) AddProgramAtOffset(instructions []uint16, origin int8, offset uint8) error {
	if !pio.CanAddProgramAtOffset(instructions, origin, offset) {
		return ErrNoSpaceAtOffset
	}
	hw := pio.HW()
	for i, instr := range instructions {
		if instr&_INSTR_BITS_Msk == _INSTR_BITS_JMP {
			instr += uint16(offset)
		}
		hw.INSTR_MEM[int(offset)+i].Set(uint32(instr))
	}
	pio.usedSpaceMask |= programMask(len(instructions)) << offset
	return nil
}

// CanAddProgramAtOffset returns true if there is enough space for program at given offset.
func (pio *PIO) CanAddProgramAtOffset(instructions []uint16, origin int8, offset uint8) bool {
	if origin >= 0 && origin != int8(offset) {
		return false
	}
	if int(offset)+len(instructions) > 32 {
		return false
	}
	return pio.usedSpaceMask&(programMask(len(instructions))<<offset) == 0
}

// RemoveProgram frees the instruction memory of a program added at offset
// and fills it with jumps to itself.
func (pio *PIO) RemoveProgram(instructions []uint16, offset uint8) {
	pio.ClearProgramSection(offset, uint8(len(instructions)))
}

func programMask(n int) uint32 {
	if n >= 32 {
		return 0xffffffff
	}
	return 1<<n - 1
}

func (pio *PIO) findOffsetForProgram(instructions []uint16, origin int8) int8 {
	programLen := len(instructions)
	if programLen > 32 {
		return -1
	}
	mask := programMask(programLen)
	if origin >= 0 {
		if int(origin) > 32-programLen || pio.usedSpaceMask&(mask<<origin) != 0 {
			return -1
		}
		return origin
	}
	for i := 32 - programLen; i >= 0; i-- {
		if pio.usedSpaceMask&(mask<<i) == 0 {
			return int8(i)
		}
	}
	return -1
}

// ClearProgramSection clears a contiguous section of the PIO's program memory.
// To clear all program memory use ClearProgramSection(0, 32).
func (pio *PIO) ClearProgramSection(offset, len uint8) {
	if int(offset)+int(len) > 32 {
		panic(badProgramBounds)
	}
	hw := pio.HW()
	for i := offset; i < offset+len; i++ {
		// A state machine still running here spins instead of executing stale code.
		hw.INSTR_MEM[i].Set(uint32(EncodeJmp(i, JmpAlways)))
	}
	pio.usedSpaceMask &^= programMask(int(len)) << offset
}

type statemachineHW struct {
	CLKDIV    volatile.Register32 // 0xC8 for SM0
	EXECCTRL  volatile.Register32 // 0xCC for SM0
	SHIFTCTRL volatile.Register32 // 0xD0 for SM0
	ADDR      volatile.Register32 // 0xD4 for SM0
	INSTR     volatile.Register32 // 0xD8 for SM0
	PINCTRL   volatile.Register32 // 0xDC for SM0
}

// PinMode returns the PinMode for a PIO state machine, one of
// PIO0, PIO1, or PIO2.
func (pio *PIO) PinMode() machine.PinMode {
	return machine.PinPIO0 + machine.PinMode(pio.BlockIndex())
}

// GPIOStates returns the current PIO-commanded state for output GPIOs.
func (pio *PIO) GPIOStates() uint32 {
	return pio.HW().DBG_PADOUT.Get()
}

// HW returns a pointer to the PIO's hardware registers.
func (pio *PIO) HW() *pioHW { return (*pioHW)(unsafe.Pointer(pio.hw)) }

// Programmable IO block
type pioHW struct {
	CTRL              volatile.Register32 // 0x0
	FSTAT             volatile.Register32 // 0x4
	FDEBUG            volatile.Register32 // 0x8
	FLEVEL            volatile.Register32 // 0xC
	TXF               [4]volatile.Register32
	RXF               [4]volatile.Register32
	IRQ               volatile.Register32                       // 0x30
	IRQ_FORCE         volatile.Register32                       // 0x34
	INPUT_SYNC_BYPASS volatile.Register32                       // 0x38
	DBG_PADOUT        volatile.Register32                       // 0x3C
	DBG_PADOE         volatile.Register32                       // 0x40
	DBG_CFGINFO       volatile.Register32                       // 0x44
	INSTR_MEM         [32]volatile.Register32                   // 0x48..0xC4
	SM                [4]statemachineHW                         // SM0=[0xC8..0xDC], .. 0x124
	RXF_PUTGET        [rp2350ExtraReg][4][4]volatile.Register32 // ----- | 0x128
	GPIOBASE          [rp2350ExtraReg]volatile.Register32       // ----- | 0x168
	INTR              volatile.Register32                       // 0x128 | 0x16C
	IRQ_INT           [2]irqINTHW                               // 0x12C..0x140 | 0x170..0x184
}

type irqINTHW struct {
	E volatile.Register32
	F volatile.Register32
	S volatile.Register32
}

const (
	sizeOK = unsafe.Sizeof(rp.PIO0_Type{}) == unsafe.Sizeof(pioHW{})
)

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
