package clockless

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type call struct {
	op    string
	data  []byte
	count int
	scale uint8
}

type fakeController struct {
	channels int
	initErr  error
	showErr  error
	dither   bool
	calls    []call
}

func (f *fakeController) Init() error { return f.initErr }

func (f *fakeController) Show(buf []byte, count int, scale uint8) error {
	f.calls = append(f.calls, call{"show", bytes.Clone(buf), count, scale})
	return f.showErr
}

func (f *fakeController) ShowColor(c Color, count int, scale uint8) error {
	f.calls = append(f.calls, call{"color", []byte{c.R, c.G, c.B, c.W}, count, scale})
	return f.showErr
}

func (f *fakeController) Clear(count int) error {
	f.calls = append(f.calls, call{"clear", nil, count, 0})
	return f.showErr
}

func (f *fakeController) Channels() int     { return f.channels }
func (f *fakeController) SetDither(on bool) { f.dither = on }

type fakeClock struct {
	now   time.Duration
	slept []time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now += d
}

func TestRegistryShow(t *testing.T) {
	a := &fakeController{channels: 3}
	b := &fakeController{channels: 4}
	r := NewRegistry(nil)
	sa := r.Add(a, make([]byte, 6), 2)
	sb := r.Add(b, make([]byte, 8), 2)
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	sa.Set(1, Color{R: 1, G: 2, B: 3})
	sb.Set(0, Color{R: 4, G: 5, B: 6, W: 7})
	r.SetBrightness(100)
	if err := r.Show(); err != nil {
		t.Fatal(err)
	}
	if got, want := a.calls[0], (call{"show", []byte{0, 0, 0, 1, 2, 3}, 2, 100}); !equalCall(got, want) {
		t.Errorf("strip a call = %+v, want %+v", got, want)
	}
	if got, want := b.calls[0], (call{"show", []byte{4, 5, 6, 7, 0, 0, 0, 0}, 2, 100}); !equalCall(got, want) {
		t.Errorf("strip b call = %+v, want %+v", got, want)
	}

	if err := r.ShowColor(White); err != nil {
		t.Fatal(err)
	}
	if got := a.calls[1]; got.op != "color" || got.count != 2 || got.scale != 100 {
		t.Errorf("ShowColor call = %+v", got)
	}

	if err := r.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := sa.Pixels(); !bytes.Equal(got, make([]byte, 6)) {
		t.Errorf("buffer after Clear = %v, want zeros", got)
	}
	if got := b.calls[2]; got.op != "clear" || got.count != 2 {
		t.Errorf("Clear call = %+v", got)
	}

	r.SetDither(true)
	if !a.dither || !b.dither {
		t.Error("SetDither(true) did not reach every controller")
	}
}

func equalCall(a, b call) bool {
	return a.op == b.op && bytes.Equal(a.data, b.data) && a.count == b.count && a.scale == b.scale
}

func TestRegistryJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var logs strings.Builder
	r := NewRegistry(slog.New(slog.NewTextHandler(&logs, nil)))
	r.Add(&fakeController{channels: 3, initErr: errA, showErr: errA}, make([]byte, 3), 1)
	r.Add(&fakeController{channels: 3}, make([]byte, 3), 1)
	r.Add(&fakeController{channels: 3, showErr: errB}, make([]byte, 3), 1)

	err := r.Init()
	if !errors.Is(err, errA) {
		t.Errorf("Init() error = %v, want a failed", err)
	}
	if !strings.Contains(logs.String(), "strip init failed") {
		t.Errorf("init failure not logged: %q", logs.String())
	}

	err = r.Show()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Show() error = %v, want both strip errors", err)
	}
	if !strings.Contains(err.Error(), "strip 2") {
		t.Errorf("Show() error = %q, want strip index", err)
	}
}

func TestRegistryMaxRefreshRate(t *testing.T) {
	clk := &fakeClock{}
	r := NewRegistry(nil)
	r.SetClock(clk.Now, clk.Sleep)
	r.Add(&fakeController{channels: 3}, make([]byte, 3), 1)
	r.SetMaxRefreshRate(100)

	for i := 0; i < 3; i++ {
		if err := r.Show(); err != nil {
			t.Fatal(err)
		}
		clk.now += 4 * time.Millisecond
	}
	want := []time.Duration{6 * time.Millisecond, 6 * time.Millisecond}
	if len(clk.slept) != len(want) {
		t.Fatalf("slept %v, want %v", clk.slept, want)
	}
	for i := range want {
		if clk.slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, clk.slept[i], want[i])
		}
	}

	r.SetMaxRefreshRate(0)
	clk.slept = nil
	if err := r.Show(); err != nil {
		t.Fatal(err)
	}
	if len(clk.slept) != 0 {
		t.Errorf("unlimited Show slept %v", clk.slept)
	}
}

func TestRegistryFPS(t *testing.T) {
	clk := &fakeClock{}
	r := NewRegistry(nil)
	r.SetClock(clk.Now, clk.Sleep)
	r.Add(&fakeController{channels: 3}, make([]byte, 3), 1)
	for i := 0; i <= 50; i++ {
		if err := r.Show(); err != nil {
			t.Fatal(err)
		}
		clk.now += 20 * time.Millisecond
	}
	if got := r.FPS(); got != 50 {
		t.Errorf("FPS() = %d, want 50", got)
	}
}

func TestStripDisplayer(t *testing.T) {
	c := &fakeController{channels: 3}
	s := NewStrip(c, make([]byte, 9), 3)
	if x, y := s.Size(); x != 3 || y != 1 {
		t.Errorf("Size() = %d, %d, want 3, 1", x, y)
	}
	s.SetPixel(2, 0, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	s.SetPixel(3, 0, color.RGBA{R: 1})
	s.SetPixel(0, 1, color.RGBA{R: 1})
	if got := s.Get(2); got != (Color{R: 9, G: 8, B: 7}) {
		t.Errorf("Get(2) = %+v", got)
	}
	if err := s.Display(); err != nil {
		t.Fatal(err)
	}
	want := call{"show", []byte{0, 0, 0, 0, 0, 0, 9, 8, 7}, 3, 255}
	if got := c.calls[0]; !equalCall(got, want) {
		t.Errorf("Display() call = %+v, want %+v", got, want)
	}

	s.Fill(Color{R: 1, G: 1, B: 1})
	if got := s.Pixels(); !bytes.Equal(got, bytes.Repeat([]byte{1}, 9)) {
		t.Errorf("Fill() buffer = %v", got)
	}
}

func TestNewStripShortBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewStrip() did not panic")
		}
	}()
	NewStrip(&fakeController{channels: 4}, make([]byte, 7), 2)
}
