package clockless

import "time"

var epoch = time.Now()

// monotonic is the default clock for latch windows.
func monotonic() time.Duration { return time.Since(epoch) }

// ReenableWindow enforces the chipset reset time between frames. The line
// must stay low for at least min after a frame before the next one starts,
// otherwise the LEDs treat the new bits as a continuation.
//
// Show returns as soon as the last bit is out; the wait happens at the start
// of the next Show, so the caller gets the reset time back for rendering.
type ReenableWindow struct {
	min    time.Duration
	now    func() time.Duration
	end    time.Duration
	marked bool
}

// NewReenableWindow returns a window of length min. A nil now uses the
// monotonic clock.
func NewReenableWindow(min time.Duration, now func() time.Duration) ReenableWindow {
	if now == nil {
		now = monotonic
	}
	return ReenableWindow{min: min, now: now}
}

// Mark records that a frame finished now.
func (w *ReenableWindow) Mark() {
	w.end = w.now() + w.min
	w.marked = true
}

// Ready reports whether a new frame may start.
func (w *ReenableWindow) Ready() bool {
	return !w.marked || w.now() >= w.end
}

// Wait busy-waits until a new frame may start.
func (w *ReenableWindow) Wait() {
	if !w.marked {
		return
	}
	for w.now() < w.end {
	}
}

// Min returns the window length.
func (w ReenableWindow) Min() time.Duration { return w.min }
