package flush

import (
	"sync/atomic"
	"time"
	_ "unsafe" // go:linkname
)

// nanotime is the runtime monotonic clock in nanoseconds.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// IntervalTrigger is due once the interval elapsed since the last Reset.
//
// It uses the runtime's monotonic clock and atomics, so polling it on
// every pump iteration costs a few nanoseconds.
type IntervalTrigger struct {
	interval  int64 // nanoseconds
	lastFlush atomic.Int64
}

// NewInterval creates an IntervalTrigger with the specified interval.
func NewInterval(interval time.Duration) *IntervalTrigger {
	t := &IntervalTrigger{
		interval: int64(interval),
	}
	t.lastFlush.Store(nanotime())
	return t
}

// Due reports whether entries are staged and the interval elapsed.
func (t *IntervalTrigger) Due(staged int) bool {
	if staged == 0 {
		return false
	}
	return nanotime()-t.lastFlush.Load() >= t.interval
}

// Reset starts a new interval from now.
func (t *IntervalTrigger) Reset() {
	t.lastFlush.Store(nanotime())
}

// Stop is a no-op for IntervalTrigger (no resources to release).
func (t *IntervalTrigger) Stop() {}

// Interval returns the trigger's interval.
func (t *IntervalTrigger) Interval() time.Duration {
	return time.Duration(t.interval)
}
