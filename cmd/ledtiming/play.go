package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fastled/clockless/clockless"
	"github.com/fastled/clockless/ledlib"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3"
)

type playOptions struct {
	spi        string
	gpio       string
	chipset    string
	count      int
	color      string
	brightness uint8
	clear      bool
}

// openPlayer opens the SPI port or the streaming GPIO named in o. The
// returned closer is nil for GPIOs.
func openPlayer(o playOptions, cfg clockless.Config) (clockless.Controller, io.Closer, error) {
	switch {
	case o.spi != "" && o.gpio != "":
		return nil, nil, errors.New("--spi and --gpio are exclusive")
	case o.spi != "":
		c, port, err := ledlib.OpenSPI(o.spi, cfg)
		if err != nil {
			return nil, nil, err
		}
		return c, port, nil
	case o.gpio != "":
		c, err := ledlib.OpenStream(o.gpio, cfg)
		return c, nil, err
	}
	return nil, nil, errors.New("one of --spi or --gpio is required")
}

func newPlayCmd(a *app) *cobra.Command {
	o := playOptions{chipset: "ws2812", count: 1, color: "ffffff", brightness: 64}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Show a colour on a strip wired to a Linux SPI bus or GPIO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chip, err := clockless.LookupChipset(o.chipset)
			if err != nil {
				return err
			}
			col, err := parseColor(o.color)
			if err != nil {
				return err
			}
			state, err := host.Init()
			if err != nil {
				return fmt.Errorf("periph host init: %w", err)
			}
			for _, d := range state.Failed {
				a.log.Debug("periph driver failed", "driver", d.D, "error", d.Err)
			}
			c, closer, err := openPlayer(o, clockless.Config{Chipset: chip})
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			if err := c.Init(); err != nil {
				return err
			}
			if o.clear {
				a.log.Info("clearing strip", "count", o.count)
				return c.Clear(o.count)
			}
			a.log.Info("showing colour", "chipset", chip.Name, "count", o.count, "color", o.color, "brightness", o.brightness)
			return c.ShowColor(col, o.count, o.brightness)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.spi, "spi", "", "SPI port name, e.g. /dev/spidev0.0 or SPI0.0")
	f.StringVar(&o.gpio, "gpio", "", "streaming capable GPIO name, e.g. GPIO18")
	f.StringVarP(&o.chipset, "chipset", "c", o.chipset, "chipset name")
	f.IntVarP(&o.count, "count", "n", o.count, "number of pixels")
	f.StringVar(&o.color, "color", o.color, "colour as rrggbb or rrggbbww hex")
	f.Uint8VarP(&o.brightness, "brightness", "b", o.brightness, "global brightness 0-255")
	f.BoolVar(&o.clear, "clear", false, "turn the strip off instead")
	return cmd
}
