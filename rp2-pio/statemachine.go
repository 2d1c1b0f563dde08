//go:build rp2040 || rp2350

package pio

import (
	"device/rp"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// StateMachine represents one of the four state machines in a PIO
type StateMachine struct {
	// The pio containing this state machine
	pio *PIO

	// index of this state machine
	index uint8
}

// IsClaimed returns true if the state machine is claimed by other code and should not be used.
func (sm StateMachine) IsClaimed() bool { return sm.pio.claimedSMMask&(1<<sm.index) != 0 }

// Unclaim releases the state machine for use by other code.
func (sm StateMachine) Unclaim() { sm.pio.claimedSMMask &^= (1 << sm.index) }

// TryClaim attempts to claim the state machine for use by the caller and returns
// true if successful, or false if StateMachine already claimed. Regardless of result
// the state machine is guaranteed to be claimed after the call ends.
func (sm StateMachine) TryClaim() bool {
	if sm.IsClaimed() {
		return false
	}
	sm.pio.claimedSMMask |= 1 << sm.index
	return true
}

// HW returns a pointer to the configuration hardware registers for this state machine.
func (sm StateMachine) HW() *statemachineHW { return &sm.pio.HW().SM[sm.index] }

// PIO returns the PIO that this state machine is part of.
func (sm StateMachine) PIO() *PIO {
	sm.pio.BlockIndex() // Panic if PIO or state machine not at valid offset.
	return sm.pio
}

// StateMachineIndex returns the index of the state machine within the PIO.
func (sm StateMachine) StateMachineIndex() uint8 { return sm.index }

// IsValid returns true if state machine is a valid instance.
func (sm StateMachine) IsValid() bool {
	return sm.pio != nil && sm.index <= 3
}

// Init halts the state machine, applies cfg, flushes its FIFOs and jumps to
// initialPC. The state machine is left disabled.
func (sm StateMachine) Init(initialPC uint8, cfg StateMachineConfig) {
	sm.PIO().BlockIndex() // Panic if PIO or state machine not at valid offset.
	if sm.index > 3 {
		panic(badStateMachineIndex)
	}

	sm.SetEnabled(false)

	if cfg == (StateMachineConfig{}) {
		cfg = DefaultStateMachineConfig()
	}
	sm.SetConfig(cfg)

	sm.ClearFIFOs()

	// Clear FIFO debug flags
	const fdebugMask = uint32((1 << rp.PIO0_FDEBUG_TXOVER_Pos) |
		(1 << rp.PIO0_FDEBUG_RXUNDER_Pos) |
		(1 << rp.PIO0_FDEBUG_TXSTALL_Pos) |
		(1 << rp.PIO0_FDEBUG_RXSTALL_Pos))

	sm.pio.HW().FDEBUG.Set(fdebugMask << sm.index)

	sm.Restart()
	sm.ClkDivRestart()
	sm.Exec(EncodeJmp(initialPC, JmpAlways))
}

// SetEnabled controls whether the state machine is running.
func (sm StateMachine) SetEnabled(enabled bool) {
	sm.pio.HW().CTRL.ReplaceBits(boolToBit(enabled), 0x1, sm.index)
}

// IsEnabled returns true if the state machine is running.
func (sm StateMachine) IsEnabled() bool {
	return sm.pio.HW().CTRL.HasBits(1 << (rp.PIO0_CTRL_SM_ENABLE_Pos + sm.index))
}

// Restart clears internal StateMachine state which may otherwise be difficult to access, e.g. shift counters.
func (sm StateMachine) Restart() {
	sm.pio.HW().CTRL.SetBits(1 << (rp.PIO0_CTRL_SM_RESTART_Pos + sm.index))
}

// ClkDivRestart forces clock dividers to restart their count and clear fractional accumulators (phase is zeroed).
func (sm StateMachine) ClkDivRestart() {
	sm.pio.HW().CTRL.SetBits(1 << (rp.PIO0_CTRL_CLKDIV_RESTART_Pos + sm.index))
}

// SetConfig applies state machine configuration to a state machine
func (sm StateMachine) SetConfig(cfg StateMachineConfig) {
	hw := sm.HW()
	hw.CLKDIV.Set(cfg.ClkDiv)
	hw.EXECCTRL.Set(cfg.ExecCtrl)
	hw.SHIFTCTRL.Set(cfg.ShiftCtrl)
	hw.PINCTRL.Set(cfg.PinCtrl)
}

// SetClkDiv sets the clock divider for the state machine from a whole and fractional part where:
//
//	Frequency = clock freq / (CLKDIV_INT + CLKDIV_FRAC / 256)
func (sm StateMachine) SetClkDiv(whole uint16, frac uint8) {
	sm.HW().CLKDIV.Set(clkDiv(whole, frac))
}

// TxPut puts a value into the state machine's TX FIFO.
//
// This function does not check for fullness. If the FIFO is full the FIFO
// contents are not affected and the sticky TXOVER flag is set for this FIFO in FDEBUG.
func (sm StateMachine) TxPut(data uint32) {
	sm.TxReg().Set(data)
}

// TxReg gets a pointer to the TX FIFO register for this state machine.
func (sm StateMachine) TxReg() *volatile.Register32 {
	return &sm.pio.HW().TXF[sm.index]
}

// IsTxFIFOEmpty returns true if state machine's TX FIFO is empty.
func (sm StateMachine) IsTxFIFOEmpty() bool {
	return (sm.pio.HW().FSTAT.Get() & (1 << (rp.PIO0_FSTAT_TXEMPTY_Pos + sm.index))) != 0
}

// IsTxFIFOFull returns true if state machine's TX FIFO is full.
func (sm StateMachine) IsTxFIFOFull() bool {
	return (sm.pio.HW().FSTAT.Get() & (1 << (rp.PIO0_FSTAT_TXFULL_Pos + sm.index))) != 0
}

// TxStalled reports whether the state machine has stalled on an empty TX
// FIFO since the flag was last cleared. A program that pulls with blocking
// sets it once the last queued word has been shifted out.
func (sm StateMachine) TxStalled() bool {
	return sm.pio.HW().FDEBUG.HasBits(1 << (rp.PIO0_FDEBUG_TXSTALL_Pos + sm.index))
}

// ClearTxStalled clears the sticky TX stall flag.
func (sm StateMachine) ClearTxStalled() {
	sm.pio.HW().FDEBUG.Set(1 << (rp.PIO0_FDEBUG_TXSTALL_Pos + sm.index))
}

// ClearFIFOs clears the TX and RX FIFOs of a state machine.
func (sm StateMachine) ClearFIFOs() {
	shiftctl := &sm.HW().SHIFTCTRL
	// FIFOs are flushed when this bit is changed. Xoring twice returns bit to original state.
	xorBits(shiftctl, rp.PIO0_SM0_SHIFTCTRL_FJOIN_RX_Msk)
	xorBits(shiftctl, rp.PIO0_SM0_SHIFTCTRL_FJOIN_RX_Msk)
}

// Exec will immediately execute an instruction on the state machine
func (sm StateMachine) Exec(instr uint16) {
	sm.HW().INSTR.Set(uint32(instr))
}

// SetPindirsConsecutive sets a range of pins to either 'in' or 'out'. This must be done
// for all used pins before the state machine is started, including SET, IN, OUT and SIDESET pins.
func (sm StateMachine) SetPindirsConsecutive(pin machine.Pin, count uint8, isOut bool) {
	checkPinBaseAndCount(pin, count)
	sm.setPinExec(SrcDestPinDirs, pin, count, isOut)
}

// SetPinsConsecutive sets a range of pins initial starting values.
func (sm StateMachine) SetPinsConsecutive(pin machine.Pin, count uint8, level bool) {
	checkPinBaseAndCount(pin, count)
	sm.setPinExec(SrcDestPins, pin, count, level)
}

// setPinExec runs a one pin SET on each pin with the state machine halted,
// then restores its pin and exec configuration.
func (sm StateMachine) setPinExec(dest SrcDest, base machine.Pin, count uint8, value bool) {
	hw := sm.HW()
	pinctrlSaved := hw.PINCTRL.Get()
	execctrlSaved := hw.EXECCTRL.Get()
	hw.EXECCTRL.ClearBits(1 << rp.PIO0_SM0_EXECCTRL_OUT_STICKY_Pos)
	for pin := uint32(base); pin < uint32(base)+uint32(count); pin++ {
		hw.PINCTRL.Set(
			1<<rp.PIO0_SM0_PINCTRL_SET_COUNT_Pos |
				pin<<rp.PIO0_SM0_PINCTRL_SET_BASE_Pos,
		)
		sm.Exec(EncodeSet(dest, boolAsU8(value)))
	}
	hw.PINCTRL.Set(pinctrlSaved)
	hw.EXECCTRL.Set(execctrlSaved)
}

const (
	regAliasXOR = 0x1 << 12
)

// aliasReg returns the atomic XOR alias of reg. Every peripheral register
// has write aliases at +0x1000 (XOR), +0x2000 (set) and +0x3000 (clear).
//
//go:inline
func aliasReg(alias uintptr, reg *volatile.Register32) *volatile.Register32 {
	alias = uintptr(unsafe.Pointer(reg)) | alias
	return (*volatile.Register32)(unsafe.Pointer(alias))
}

func xorBits(reg *volatile.Register32, bits uint32) {
	aliasReg(regAliasXOR, reg).Set(bits)
}
