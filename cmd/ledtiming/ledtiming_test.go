package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fastled/clockless/clockless"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChipsetsCmd(t *testing.T) {
	out, err := run(t, "chipsets")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if got, want := len(lines), len(clockless.Chipsets)+1; got != want {
		t.Fatalf("chipsets printed %d lines, want %d", got, want)
	}
	if !strings.HasPrefix(lines[1], "WS2812 ") || !strings.Contains(lines[1], "2400000") {
		t.Errorf("first row = %q, want WS2812 with its 2.4MHz NRZ rate", lines[1])
	}
}

func TestCheckTimings(t *testing.T) {
	rows := checkTimings([]clockless.Chipset{clockless.WS2812}, []uint{16_000_000, 64_000_000, 1_000_000})
	if len(rows) != 3 {
		t.Fatalf("%d rows, want 3", len(rows))
	}
	for _, tt := range []struct {
		row        checkRow
		t1, t2, t3 uint32
	}{
		{rows[0], 4, 10, 6},
		{rows[1], 16, 40, 24},
	} {
		if tt.row.CPUErr != nil {
			t.Errorf("%d Hz: %v", tt.row.Hz, tt.row.CPUErr)
			continue
		}
		ct := tt.row.Cycles
		if ct.T1 != tt.t1 || ct.T2 != tt.t2 || ct.T3 != tt.t3 {
			t.Errorf("%d Hz: cycles %d/%d/%d, want %d/%d/%d", tt.row.Hz, ct.T1, ct.T2, ct.T3, tt.t1, tt.t2, tt.t3)
		}
		if tt.row.Worst != 0 {
			t.Errorf("%d Hz: error %v, want 0", tt.row.Hz, tt.row.Worst)
		}
	}
	if !errors.Is(rows[2].CPUErr, clockless.ErrTimingUnrealizable) {
		t.Errorf("1MHz error = %v, want ErrTimingUnrealizable", rows[2].CPUErr)
	}
	if !errors.Is(rows[2].PIOErr, clockless.ErrTimingUnrealizable) {
		t.Errorf("1MHz PIO error = %v, want ErrTimingUnrealizable", rows[2].PIOErr)
	}
}

func TestCheckCmdMaxError(t *testing.T) {
	out, err := run(t, "check", "-c", "ws2812b", "--clock", "64000000", "--max-error", "1ns")
	if err != nil {
		t.Fatalf("exact timing failed: %v", err)
	}
	if !strings.Contains(out, "16/40/24") {
		t.Errorf("output missing 64MHz cycles:\n%s", out)
	}
	// PL9823's 350ns T1 is 5.6 cycles at 16MHz.
	_, err = run(t, "check", "-c", "pl9823", "--clock", "16000000", "--max-error", "20ns")
	if !errors.Is(err, errTimingOff) {
		t.Errorf("check error = %v, want errTimingOff", err)
	}
	if _, err := run(t, "check", "-c", "nope"); !errors.Is(err, clockless.ErrUnknownChipset) {
		t.Errorf("unknown chipset error = %v", err)
	}
}

const stripsTOML = `
cpu_hz = 64000000

[[strip]]
name = "porch"
chipset = "ws2812b"
count = 4
color = "#ff8000"

[[strip]]
chipset = "sk6812rgbw"
engine = "delay"
count = 3
frames = 3
brightness = 128
dither = true
`

func TestParseSimConfig(t *testing.T) {
	strips, err := parseSimConfig([]byte(stripsTOML))
	if err != nil {
		t.Fatal(err)
	}
	if len(strips) != 2 {
		t.Fatalf("%d strips, want 2", len(strips))
	}
	a, b := strips[0], strips[1]
	if a.Name != "porch" || a.Chipset.Name != "WS2812" || a.Delay || a.Brightness != 255 || a.Frames != 1 {
		t.Errorf("strip 0 = %+v", a)
	}
	if a.Color == nil || *a.Color != (clockless.Color{R: 0xff, G: 0x80}) {
		t.Errorf("strip 0 color = %v", a.Color)
	}
	if b.Name != "strip1" || !b.Delay || b.Brightness != 128 || b.Frames != 3 || !b.Dither || b.Hz != 64_000_000 {
		t.Errorf("strip 1 = %+v", b)
	}
}

func TestParseSimConfigErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		toml string
		want string
	}{
		{"empty", `cpu_hz = 1`, "no [[strip]]"},
		{"chipset", "[[strip]]\nchipset = \"ws9999\"\ncount = 1", "unknown chipset"},
		{"count", "[[strip]]\nchipset = \"ws2812\"", "count 0"},
		{"engine", "[[strip]]\nchipset = \"ws2812\"\ncount = 1\nengine = \"dma\"", "unknown engine"},
		{"order", "[[strip]]\nchipset = \"ws2812\"\ncount = 1\norder = \"RRB\"", "channel order"},
		{"color", "[[strip]]\nchipset = \"ws2812\"\ncount = 1\ncolor = \"red\"", "color"},
		{"syntax", "[[strip]\n", "failed to parse"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSimConfig([]byte(tt.toml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parseSimConfig() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSimulateAll(t *testing.T) {
	strips, err := parseSimConfig([]byte(stripsTOML))
	if err != nil {
		t.Fatal(err)
	}
	results, err := simulateAll(context.Background(), strips, 150*time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if !r.OK() {
			t.Errorf("%s: %v", r.Name, r.Failures)
		}
		if r.Frames != strips[i].Frames {
			t.Errorf("%s: %d frames, want %d", r.Name, r.Frames, strips[i].Frames)
		}
		if want := strips[i].Frames * strips[i].Count * strips[i].Chipset.Channels * 8; r.Bits != want {
			t.Errorf("%s: %d bits, want %d", r.Name, r.Bits, want)
		}
	}
	if results[1].Engine != "delay" {
		t.Errorf("strip 1 engine = %q, want delay", results[1].Engine)
	}
}

func TestSimulateCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strips.toml")
	if err := os.WriteFile(path, []byte(stripsTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--log-level", "debug", "simulate", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, " ok\n") != 2 {
		t.Errorf("want two ok rows:\n%s", out)
	}
	if _, err := run(t, "simulate", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("simulate with a missing file succeeded")
	}
}

func TestSimulateCanceled(t *testing.T) {
	strips, err := parseSimConfig([]byte(stripsTOML))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := simulateAll(ctx, strips, 150*time.Nanosecond); !errors.Is(err, context.Canceled) {
		t.Errorf("simulateAll() error = %v, want context.Canceled", err)
	}
}

func TestParseColor(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want clockless.Color
		ok   bool
	}{
		{"ff0000", clockless.Color{R: 255}, true},
		{"#010203", clockless.Color{R: 1, G: 2, B: 3}, true},
		{"01020304", clockless.Color{R: 1, G: 2, B: 3, W: 4}, true},
		{"fff", clockless.Color{}, false},
		{"gg0000", clockless.Color{}, false},
	} {
		got, err := parseColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v, want %v ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestLevelFlag(t *testing.T) {
	var l levelFlag
	if err := l.Set("debug"); err != nil || l.Level != slog.LevelDebug {
		t.Errorf("Set(debug) = %v, level %v", err, l.Level)
	}
	if err := l.Set("loud"); err == nil {
		t.Error("Set(loud) succeeded")
	}
	if _, err := run(t, "--log-level", "loud", "chipsets"); err == nil {
		t.Error("bad --log-level accepted")
	}
}

func TestPlayNeedsOutput(t *testing.T) {
	if _, _, err := openPlayer(playOptions{}, clockless.Config{Chipset: clockless.WS2812}); err == nil {
		t.Error("openPlayer() with no output succeeded")
	}
	if _, _, err := openPlayer(playOptions{spi: "a", gpio: "b"}, clockless.Config{Chipset: clockless.WS2812}); err == nil {
		t.Error("openPlayer() with both outputs succeeded")
	}
}
