package simulation

import (
	"math"
	"time"
)

// Timer counts simulated time towards a fixed period. A repeating timer
// restarts on every expiry and keeps the overshoot.
type Timer struct {
	Period    time.Duration
	Repeating bool

	elapsed  time.Duration
	finished bool
	stopped  bool
}

func NewTimer(period time.Duration, repeating bool) *Timer {
	return &Timer{Period: period, Repeating: repeating}
}

// Tick advances the timer by dt and returns how many times it expired.
func (t *Timer) Tick(dt time.Duration) int {
	if t.stopped || t.Period <= 0 || dt <= 0 {
		return 0
	}
	if !t.Repeating && t.finished {
		return 0
	}

	t.elapsed += dt
	if t.elapsed < t.Period {
		return 0
	}

	if !t.Repeating {
		t.elapsed = t.Period
		t.finished = true
		return 1
	}

	n := int(t.elapsed / t.Period)
	t.elapsed %= t.Period
	return n
}

// Reset rewinds and restarts the timer.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.stopped = false
}

// Stop freezes the timer until the next Reset.
func (t *Timer) Stop() {
	t.stopped = true
}

func (t *Timer) Stopped() bool {
	return t.stopped
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *Timer) Remaining() time.Duration {
	return t.Period - t.elapsed
}

// seconds converts a tick delta to a Duration, rounding to the nearest
// nanosecond so fractional tick rates add up to whole periods.
func seconds(dt float64) time.Duration {
	return time.Duration(math.Round(dt * float64(time.Second)))
}
