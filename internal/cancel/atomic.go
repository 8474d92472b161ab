package cancel

import (
	"context"
	"sync/atomic"
)

// AtomicCanceler is a Canceler backed by an atomic.Bool. Done is one
// atomic load.
type AtomicCanceler struct {
	done atomic.Bool
}

// NewAtomic returns an untripped flag.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Watch returns an AtomicCanceler that trips when ctx is done, and a
// release func that detaches it from ctx. Call release once the flag is
// no longer polled.
func Watch(ctx context.Context) (*AtomicCanceler, func()) {
	a := NewAtomic()
	if ctx.Err() != nil {
		a.Cancel()
		return a, func() {}
	}
	stop := context.AfterFunc(ctx, a.Cancel)
	return a, func() { stop() }
}

// Done reports whether Cancel has run.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel trips the flag.
func (a *AtomicCanceler) Cancel() {
	a.done.Store(true)
}

// Reset untrips the flag so it can be reused between runs. Pollers that
// already saw Done may have exited.
func (a *AtomicCanceler) Reset() {
	a.done.Store(false)
}
