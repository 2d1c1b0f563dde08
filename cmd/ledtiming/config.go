package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fastled/clockless/clockless"
	"github.com/pelletier/go-toml/v2"
)

// simConfig is the strip file read by simulate.
//
//	cpu_hz = 64000000
//
//	[[strip]]
//	name = "porch"
//	chipset = "ws2812b"
//	count = 30
//	engine = "delay"
//	color = "ff8000"
type simConfig struct {
	CPUHz  uint32        `toml:"cpu_hz"`
	Strips []stripConfig `toml:"strip"`
}

type stripConfig struct {
	Name    string `toml:"name"`
	Chipset string `toml:"chipset"`
	// Order overrides the chipset's channel order, e.g. "RGB".
	Order  string `toml:"order"`
	Count  int    `toml:"count"`
	Engine string `toml:"engine"`
	// CPUHz overrides the file wide clock.
	CPUHz      uint32 `toml:"cpu_hz"`
	Brightness *uint8 `toml:"brightness"`
	Dither     bool   `toml:"dither"`
	// Frames is the number of frames sent, 1 if unset.
	Frames int `toml:"frames"`
	// Color fills the strip; a ramp is sent when empty.
	Color string `toml:"color"`
}

// strip is a validated stripConfig.
type strip struct {
	Name       string
	Chipset    clockless.Chipset
	Order      clockless.ChannelOrder
	Count      int
	Delay      bool
	Hz         uint32
	Brightness uint8
	Dither     bool
	Frames     int
	Color      *clockless.Color
}

const defaultSimHz = 64_000_000

func loadSimConfig(path string) ([]strip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strip config: %w", err)
	}
	return parseSimConfig(data)
}

func parseSimConfig(data []byte) ([]strip, error) {
	var cfg simConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse strip config: %w", err)
	}
	if len(cfg.Strips) == 0 {
		return nil, fmt.Errorf("strip config has no [[strip]] tables")
	}
	if cfg.CPUHz == 0 {
		cfg.CPUHz = defaultSimHz
	}
	strips := make([]strip, 0, len(cfg.Strips))
	for i, sc := range cfg.Strips {
		s, err := sc.resolve(cfg.CPUHz)
		if err != nil {
			return nil, fmt.Errorf("strip %d: %w", i, err)
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("strip%d", i)
		}
		strips = append(strips, s)
	}
	return strips, nil
}

func (sc stripConfig) resolve(hz uint32) (strip, error) {
	chip, err := clockless.LookupChipset(sc.Chipset)
	if err != nil {
		return strip{}, err
	}
	s := strip{
		Name:       sc.Name,
		Chipset:    chip,
		Count:      sc.Count,
		Hz:         hz,
		Brightness: 255,
		Dither:     sc.Dither,
		Frames:     sc.Frames,
	}
	if sc.Order != "" {
		if s.Order, err = clockless.ParseChannelOrder(sc.Order); err != nil {
			return strip{}, err
		}
	}
	if s.Count <= 0 {
		return strip{}, fmt.Errorf("count %d, want at least 1", sc.Count)
	}
	switch strings.ToLower(sc.Engine) {
	case "", "counter":
	case "delay":
		s.Delay = true
	default:
		return strip{}, fmt.Errorf("unknown engine %q, want counter or delay", sc.Engine)
	}
	if sc.CPUHz != 0 {
		s.Hz = sc.CPUHz
	}
	if sc.Brightness != nil {
		s.Brightness = *sc.Brightness
	}
	if s.Frames <= 0 {
		s.Frames = 1
	}
	if sc.Color != "" {
		c, err := parseColor(sc.Color)
		if err != nil {
			return strip{}, err
		}
		s.Color = &c
	}
	return s, nil
}

// parseColor reads "rrggbb" or "rrggbbww" hex, with an optional leading '#'.
func parseColor(s string) (clockless.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return clockless.Color{}, fmt.Errorf("color %q, want rrggbb or rrggbbww", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return clockless.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v <<= 8
	}
	return clockless.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), W: uint8(v)}, nil
}
