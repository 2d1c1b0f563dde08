//go:build !(tinygo && baremetal)

package clockless

import "sync"

var criticalMu sync.Mutex

type criticalState struct{}

func enterCritical() criticalState {
	criticalMu.Lock()
	return criticalState{}
}

func exitCritical(criticalState) { criticalMu.Unlock() }
