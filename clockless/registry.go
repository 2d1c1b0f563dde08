package clockless

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Registry shows a set of strips together with shared brightness, dithering
// and refresh limits. It is an explicit object; programs driving several
// independent groups of strips use one Registry each.
type Registry struct {
	strips     []*Strip
	brightness uint8
	minGap     time.Duration
	last       time.Duration
	shown      bool

	fpsStart  time.Duration
	fpsFrames uint32
	fps       uint16
	counting  bool

	now   func() time.Duration
	sleep func(time.Duration)
	log   *slog.Logger
}

// NewRegistry returns an empty registry at full brightness. log may be nil.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &Registry{
		brightness: 255,
		now:        monotonic,
		sleep:      time.Sleep,
		log:        log,
	}
}

// SetClock replaces the clock used for refresh throttling and FPS counting.
func (r *Registry) SetClock(now func() time.Duration, sleep func(time.Duration)) {
	r.now, r.sleep = now, sleep
}

// Add registers count pixels of buf on c and returns the strip.
func (r *Registry) Add(c Controller, buf []byte, count int) *Strip {
	s := NewStrip(c, buf, count)
	s.reg = r
	r.strips = append(r.strips, s)
	return s
}

// Strips returns the registered strips in the order they were added.
func (r *Registry) Strips() []*Strip { return r.strips }

// Init initializes every controller. Failures are logged and returned
// joined; strips that did initialize remain usable.
func (r *Registry) Init() error {
	var errs []error
	for i, s := range r.strips {
		if err := s.c.Init(); err != nil {
			r.log.Error("strip init failed", "strip", i, "err", err)
			errs = append(errs, fmt.Errorf("strip %d: %w", i, err))
			continue
		}
		r.log.Debug("strip ready", "strip", i, "pixels", s.count, "channels", s.c.Channels())
	}
	return errors.Join(errs...)
}

// SetBrightness sets the scale applied to every strip on Show.
func (r *Registry) SetBrightness(b uint8) { r.brightness = b }

// Brightness returns the current brightness.
func (r *Registry) Brightness() uint8 { return r.brightness }

// SetDither turns temporal dithering on or off for every controller that
// supports it.
func (r *Registry) SetDither(on bool) {
	for _, s := range r.strips {
		if d, ok := s.c.(Ditherer); ok {
			d.SetDither(on)
		}
	}
}

// SetMaxRefreshRate limits Show to hz frames per second. Zero removes the
// limit.
func (r *Registry) SetMaxRefreshRate(hz uint16) {
	if hz == 0 {
		r.minGap = 0
		return
	}
	r.minGap = time.Second / time.Duration(hz)
	r.log.Debug("refresh limited", "hz", hz, "gap", r.minGap)
}

// FPS returns the frames per second measured over the last full second.
func (r *Registry) FPS() uint16 { return r.fps }

// Show sends every strip's buffer at the current brightness.
func (r *Registry) Show() error {
	return r.each(func(s *Strip) error {
		return s.c.Show(s.buf, s.count, r.brightness)
	})
}

// ShowColor sends c to every pixel of every strip without touching the
// buffers.
func (r *Registry) ShowColor(c Color) error {
	return r.each(func(s *Strip) error {
		return s.c.ShowColor(c, s.count, r.brightness)
	})
}

// Clear zeroes every buffer and sends black.
func (r *Registry) Clear() error {
	return r.each(func(s *Strip) error {
		clear(s.buf)
		return s.c.Clear(s.count)
	})
}

func (r *Registry) each(f func(*Strip) error) error {
	r.throttle()
	var errs []error
	for i, s := range r.strips {
		if err := f(s); err != nil {
			errs = append(errs, fmt.Errorf("strip %d: %w", i, err))
		}
	}
	r.count()
	return errors.Join(errs...)
}

func (r *Registry) throttle() {
	if r.minGap > 0 && r.shown {
		if wait := r.last + r.minGap - r.now(); wait > 0 {
			r.sleep(wait)
		}
	}
	r.last = r.now()
	r.shown = true
}

func (r *Registry) count() {
	now := r.now()
	if !r.counting {
		r.fpsStart = now
		r.counting = true
		return
	}
	r.fpsFrames++
	if elapsed := now - r.fpsStart; elapsed >= time.Second {
		r.fps = uint16(time.Duration(r.fpsFrames) * time.Second / elapsed)
		r.fpsFrames = 0
		r.fpsStart = now
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
