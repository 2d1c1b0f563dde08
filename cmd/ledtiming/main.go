// Command ledtiming reports how clockless LED timings come out on real
// clocks, simulates strips against the bit-bang engines and drives strips
// from Linux hosts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ledtiming:", err)
		os.Exit(1)
	}
}
