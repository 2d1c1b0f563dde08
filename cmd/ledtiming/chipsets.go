package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fastled/clockless/clockless"
	"github.com/spf13/cobra"
)

func newChipsetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chipsets",
		Short: "List the known chipsets and their timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHIPSET\tT1\tT2\tT3\tPERIOD\tRESET\tORDER\tCH\tNRZ HZ")
			for _, c := range clockless.Chipsets {
				ts := c.Timing
				fmt.Fprintf(tw, "%s\t%v\t%v\t%v\t%v\t%v\t%v\t%d\t%d\n",
					c.Name, ts.T1, ts.T2, ts.T3, ts.Period(), c.Reset, c.Order, c.Channels,
					clockless.NRZRate(ts))
			}
			return tw.Flush()
		},
	}
}
