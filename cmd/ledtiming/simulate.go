package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fastled/clockless/clockless"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// simCosts model a Cortex-M class core with single cycle GPIO stores.
var simCosts = clockless.SimCosts{Set: 1, Clear: 1, Read: 2}

// simResult is what one simulated strip put on its wire.
type simResult struct {
	Name      string
	Chipset   string
	Engine    string
	Timing    clockless.CycleTiming
	Frames    int
	Bits      int
	WorstHigh time.Duration
	WorstLow  time.Duration
	// Failures lists bits outside tolerance and frames whose bytes differ
	// from the encoder's.
	Failures []string
}

func (r simResult) OK() bool { return len(r.Failures) == 0 }

// pattern returns the pixel buffer a strip is simulated with.
func (s strip) pattern(channels int) []byte {
	buf := make([]byte, s.Count*channels)
	for i := 0; i < s.Count; i++ {
		px := buf[i*channels : (i+1)*channels]
		if s.Color != nil {
			px[0], px[1], px[2] = s.Color.R, s.Color.G, s.Color.B
			if channels == 4 {
				px[3] = s.Color.W
			}
			continue
		}
		for ch := range px {
			px[ch] = uint8(i*channels + ch)
		}
	}
	return buf
}

func simulateStrip(ctx context.Context, s strip, tol time.Duration) (simResult, error) {
	line := clockless.NewSimLine(s.Hz, simCosts)
	cfg := clockless.Config{
		Chipset: s.Chipset,
		CPUHz:   s.Hz,
		Order:   s.Order,
		Dither:  s.Dither,
		Now:     line.Now,
	}
	var (
		c   *clockless.Clockless
		err error
	)
	engine := "counter"
	if s.Delay {
		engine = "delay"
		c, err = clockless.NewDelay(line, line, clockless.DelayCosts{Set: simCosts.Set, Clear: simCosts.Clear}, cfg)
	} else {
		c, err = clockless.NewCounter(line, line, cfg)
	}
	if err != nil {
		return simResult{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	if err := c.Init(); err != nil {
		return simResult{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	// A second encoder with the same settings predicts every frame,
	// dither included.
	enc, err := cfg.Encoder()
	if err != nil {
		return simResult{}, err
	}
	buf := s.pattern(enc.Stride())
	var want [][]byte
	for f := 0; f < s.Frames; f++ {
		if err := ctx.Err(); err != nil {
			return simResult{}, err
		}
		if err := c.Show(buf, s.Count, s.Brightness); err != nil {
			return simResult{}, fmt.Errorf("%s: frame %d: %w", s.Name, f, err)
		}
		frame, err := enc.Encode(nil, buf, s.Count, s.Brightness)
		if err != nil {
			return simResult{}, err
		}
		want = append(want, frame)
	}

	ct := c.Timing()
	res := simResult{Name: s.Name, Chipset: s.Chipset.Name, Engine: engine, Timing: ct}
	window := cfg.Window()
	reset := window.Min()
	frames := clockless.Decode(line.Edges(), ct, uint64(ct.Cycles(reset))/2)
	res.Frames = len(frames)
	if len(frames) != s.Frames {
		res.Failures = append(res.Failures, fmt.Sprintf("decoded %d frames, sent %d", len(frames), s.Frames))
	}
	limit := clockless.Tolerance(ct, tol)
	for fi, f := range frames {
		for bi, b := range f.Bits {
			res.Bits++
			if err := clockless.CheckBit(b, ct, limit); err != nil {
				res.Failures = append(res.Failures, fmt.Sprintf("frame %d bit %d: %v", fi, bi, err))
			}
			wantHigh, wantLow := ct.T1, ct.T2+ct.T3
			if b.Value {
				wantHigh, wantLow = ct.T1+ct.T2, ct.T3
			}
			res.WorstHigh = max(res.WorstHigh, ct.Duration(diff(b.High, wantHigh)))
			if b.Low != 0 {
				res.WorstLow = max(res.WorstLow, ct.Duration(diff(b.Low, wantLow)))
			}
		}
		if fi < len(want) && !bytes.Equal(f.Bytes(), want[fi]) {
			res.Failures = append(res.Failures, fmt.Sprintf("frame %d bytes differ from the encoded frame", fi))
		}
	}
	return res, nil
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// simulateAll runs every strip on its own goroutine. The simulated critical
// sections serialise the transmissions the way one CPU would.
func simulateAll(ctx context.Context, strips []strip, tol time.Duration) ([]simResult, error) {
	results := make([]simResult, len(strips))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range strips {
		i, s := i, s
		g.Go(func() error {
			r, err := simulateStrip(ctx, s, tol)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeSim(w io.Writer, results []simResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRIP\tCHIPSET\tENGINE\tCYCLES\tFRAMES\tBITS\tHIGH ERR\tLOW ERR\tRESULT")
	for _, r := range results {
		result := "ok"
		if !r.OK() {
			result = fmt.Sprintf("FAIL (%d)", len(r.Failures))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d/%d\t%d\t%d\t%v\t%v\t%s\n",
			r.Name, r.Chipset, r.Engine, r.Timing.T1, r.Timing.T2, r.Timing.T3,
			r.Frames, r.Bits, r.WorstHigh, r.WorstLow, result)
	}
	return tw.Flush()
}

func newSimulateCmd(a *app) *cobra.Command {
	var tol time.Duration
	cmd := &cobra.Command{
		Use:   "simulate <strips.toml>",
		Short: "Run strips against the simulated line and check every bit on the wire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strips, err := loadSimConfig(args[0])
			if err != nil {
				return err
			}
			a.log.Debug("simulating", "strips", len(strips), "tolerance", tol)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			results, err := simulateAll(ctx, strips, tol)
			if err != nil {
				return err
			}
			if err := writeSim(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				for _, f := range r.Failures {
					a.log.Warn("bit out of spec", "strip", r.Name, "detail", f)
				}
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d strips failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&tol, "tolerance", 150*time.Nanosecond, "allowed deviation of each phase")
	return cmd
}
