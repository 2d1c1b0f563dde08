package clockless

import "sync/atomic"

var criticalDepth atomic.Int32

// CriticalSection masks interrupts between Enter and Exit, so no handler can
// stretch a bit while a frame is on the wire. On a host build it is a process
// wide lock, which makes simulated strips on different goroutines take turns
// like they would on one CPU.
type CriticalSection struct {
	state criticalState
}

func (cs *CriticalSection) Enter() {
	cs.state = enterCritical()
	criticalDepth.Add(1)
}

func (cs *CriticalSection) Exit() {
	criticalDepth.Add(-1)
	exitCritical(cs.state)
}

// InCritical reports whether a critical section is active.
func InCritical() bool { return criticalDepth.Load() > 0 }
