// Package clock provides frame-driven countdown timers. Timers never read the
// wall clock; they only advance when ticked with a frame delta.
package clock

import "time"

// Mode selects what a timer does when it reaches its duration.
type Mode int

const (
	// Once timers stop at their duration and stay finished until Reset.
	Once Mode = iota
	// Repeating timers wrap around and keep counting.
	Repeating
)

func (m Mode) String() string {
	switch m {
	case Once:
		return "once"
	case Repeating:
		return "repeating"
	}
	return "unknown"
}

// Timer counts elapsed time up to a duration.
// The zero value is a one-shot timer of zero duration, which finishes on its
// first Tick.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
	mode     Mode

	finished     bool
	timesElapsed int
}

// NewTimer creates a timer that finishes after d
func NewTimer(d time.Duration, mode Mode) Timer {
	return Timer{duration: d, mode: mode}
}

// FromSeconds creates a timer from a duration in seconds
func FromSeconds(seconds float64, mode Mode) Timer {
	return NewTimer(time.Duration(seconds*float64(time.Second)), mode)
}

// Tick advances the timer by delta.
//
// For Once timers elapsed time is clamped at the duration. For Repeating timers
// the overflow carries into the next cycle and JustFinished/TimesFinished
// report how many cycles completed during this tick.
func (t *Timer) Tick(delta time.Duration) *Timer {
	t.timesElapsed = 0

	if t.mode == Once && t.finished {
		return t
	}

	t.elapsed += delta
	if t.elapsed < t.duration {
		t.finished = false
		return t
	}

	switch t.mode {
	case Repeating:
		if t.duration > 0 {
			t.timesElapsed = int(t.elapsed / t.duration)
			t.elapsed %= t.duration
		} else {
			t.timesElapsed = 1
			t.elapsed = 0
		}
	default:
		t.timesElapsed = 1
		t.elapsed = t.duration
	}
	t.finished = true
	return t
}

// Finished reports whether the timer has reached its duration. Repeating
// timers are only finished on the tick that wrapped them.
func (t *Timer) Finished() bool {
	return t.finished
}

// JustFinished reports whether the most recent Tick completed the timer
func (t *Timer) JustFinished() bool {
	return t.timesElapsed > 0
}

// TimesFinished returns how many times the most recent Tick completed the timer
func (t *Timer) TimesFinished() int {
	return t.timesElapsed
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *Timer) Duration() time.Duration {
	return t.duration
}

func (t *Timer) Mode() Mode {
	return t.mode
}

// Remaining returns the time left before the timer finishes
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}

// Fraction returns elapsed/duration in [0,1]
func (t *Timer) Fraction() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}

// Reset rewinds the timer to zero elapsed time
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesElapsed = 0
}
