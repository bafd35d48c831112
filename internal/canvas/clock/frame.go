package clock

import "time"

// Frames schedules work on the next animation frame
type Frames struct {
	clock    Clock
	interval time.Duration
}

// NewFrames creates a frame scheduler ticking every interval
func NewFrames(c Clock, interval time.Duration) *Frames {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Frames{clock: c, interval: interval}
}

// Request runs fn on the next frame
func (f *Frames) Request(fn func()) Timer {
	return f.clock.AfterFunc(f.interval, fn)
}

// Interval returns the frame duration
func (f *Frames) Interval() time.Duration {
	return f.interval
}

// LatestWins coalesces submissions to at most one apply per frame.
// The first submission schedules a frame; later ones before it fires only
// replace the value that frame applies.
type LatestWins[T any] struct {
	frames  *Frames
	apply   func(T)
	latest  T
	pending Timer
}

func NewLatestWins[T any](frames *Frames, apply func(T)) *LatestWins[T] {
	return &LatestWins[T]{frames: frames, apply: apply}
}

func (l *LatestWins[T]) Submit(v T) {
	l.latest = v
	if l.pending != nil {
		return
	}
	l.pending = l.frames.Request(func() {
		l.pending = nil
		l.apply(l.latest)
	})
}

// Pending reports whether a frame is scheduled
func (l *LatestWins[T]) Pending() bool {
	return l.pending != nil
}

// Cancel drops any scheduled frame
func (l *LatestWins[T]) Cancel() {
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
}
