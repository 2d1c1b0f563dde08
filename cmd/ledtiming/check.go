package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fastled/clockless/clockless"
	"github.com/fastled/clockless/rp2-pio/piolib"
	"github.com/spf13/cobra"
)

// defaultClocks are the core clocks FastLED's clockless drivers run at.
var defaultClocks = []uint{16_000_000, 48_000_000, 64_000_000, 120_000_000, 125_000_000, 133_000_000, 150_000_000, 240_000_000}

var errTimingOff = errors.New("timing error above limit")

// checkRow is one chipset at one clock.
type checkRow struct {
	Chipset clockless.Chipset
	Hz      uint32
	// Cycles is the bit-bang realization; CPUErr is nil when it fits.
	Cycles clockless.CycleTiming
	CPUErr error
	// Worst is the largest phase error of the bit-bang realization.
	Worst    time.Duration
	PIO      piolib.ProgramTiming
	PIOErr   error
	PIOWorst time.Duration
}

func checkTimings(chips []clockless.Chipset, clocks []uint) []checkRow {
	rows := make([]checkRow, 0, len(chips)*len(clocks))
	for _, c := range chips {
		for _, hz := range clocks {
			r := checkRow{Chipset: c, Hz: uint32(hz)}
			r.Cycles, r.CPUErr = c.Realize(r.Hz, 1)
			if r.CPUErr == nil {
				r.Worst = r.Cycles.Error(c.Timing)
			}
			r.PIO, r.PIOErr = piolib.SolveTiming(c.Timing, r.Hz)
			if r.PIOErr == nil {
				r.PIOWorst = r.PIO.Error(c.Timing)
			}
			rows = append(rows, r)
		}
	}
	return rows
}

func writeCheck(w io.Writer, rows []checkRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHIPSET\tMHZ\tCYCLES\tCPU ERR\tPIO CYCLES\tCLKDIV\tPIO ERR")
	for _, r := range rows {
		cpu, cpuErr := "-", "unrealizable"
		if r.CPUErr == nil {
			cpu = fmt.Sprintf("%d/%d/%d", r.Cycles.T1, r.Cycles.T2, r.Cycles.T3)
			cpuErr = r.Worst.String()
		}
		pio, div, pioErr := "-", "-", "unrealizable"
		if r.PIOErr == nil {
			pio = fmt.Sprintf("%d/%d/%d", r.PIO.T1, r.PIO.T2, r.PIO.T3)
			div = fmt.Sprintf("%d+%d/256", r.PIO.Whole, r.PIO.Frac)
			pioErr = r.PIOWorst.String()
		}
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\t%s\t%s\t%s\n",
			r.Chipset.Name, float64(r.Hz)/1e6, cpu, cpuErr, pio, div, pioErr)
	}
	return tw.Flush()
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		clocks   []uint
		names    []string
		maxError time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report the worst per-phase rounding error of each chipset at each clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chips := clockless.Chipsets
			if len(names) > 0 {
				chips = nil
				for _, n := range names {
					c, err := clockless.LookupChipset(n)
					if err != nil {
						return err
					}
					chips = append(chips, c)
				}
			}
			rows := checkTimings(chips, clocks)
			if err := writeCheck(cmd.OutOrStdout(), rows); err != nil {
				return err
			}
			if maxError <= 0 {
				return nil
			}
			var errs []error
			for _, r := range rows {
				if r.CPUErr == nil && r.Worst > maxError {
					a.log.Warn("bit-bang timing off", "chipset", r.Chipset.Name, "hz", r.Hz, "error", r.Worst)
					errs = append(errs, fmt.Errorf("%s at %d Hz: %w: %v", r.Chipset.Name, r.Hz, errTimingOff, r.Worst))
				}
			}
			return errors.Join(errs...)
		},
	}
	f := cmd.Flags()
	f.UintSliceVar(&clocks, "clock", defaultClocks, "core clocks in Hz")
	f.StringSliceVarP(&names, "chipset", "c", nil, "chipsets to check (default all)")
	f.DurationVar(&maxError, "max-error", 0, "fail if a realizable bit-bang phase is off by more than this")
	return cmd
}
