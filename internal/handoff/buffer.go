package handoff

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randomizedcoder/shiftbuf/internal/queue"
	"github.com/randomizedcoder/shiftbuf/internal/signal"
)

// Buffer is a single-consumer async handoff buffer.
type Buffer[T any] struct {
	mu      sync.Mutex
	pending queue.Pending[T]
	waiter  signal.Slot
	popping bool // a Pop is suspended or resuming
	closed  bool
	stats   Stats

	log *slog.Logger
}

// New creates an empty Buffer.
func New[T any](opts ...Option) *Buffer[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var pending queue.Pending[T]
	if o.capacity > 0 {
		pending = queue.NewRingBuffer[T](o.capacity)
	} else {
		pending = queue.NewSlice[T](0)
	}

	return &Buffer[T]{
		pending: pending,
		log:     o.logger,
	}
}

// Push appends entries in order and wakes a waiting consumer.
//
// An empty batch fails with ErrEmptyBatch whatever the buffer state.
// The wakeup does not drain; the woken Pop does.
func (b *Buffer[T]) Push(entries []T) error {
	if len(entries) == 0 {
		b.reject(ErrEmptyBatch, 0)
		return ErrEmptyBatch
	}

	b.mu.Lock()
	if b.closed {
		b.stats.Rejected++
		b.mu.Unlock()
		b.log.Debug("push rejected", "err", ErrClosed, "entries", len(entries))
		return ErrClosed
	}
	if !b.pending.Append(entries) {
		b.stats.Rejected++
		pending := b.pending.Len()
		b.mu.Unlock()
		b.log.Debug("push rejected", "err", ErrFull, "entries", len(entries), "pending", pending)
		return ErrFull
	}
	b.stats.Pushes++
	b.stats.Entries += uint64(len(entries))
	woke := b.waiter.Fire()
	if woke {
		b.stats.Wakeups++
	}
	b.mu.Unlock()

	if woke {
		b.log.Debug("woke consumer", "entries", len(entries))
	}
	return nil
}

func (b *Buffer[T]) reject(err error, n int) {
	b.mu.Lock()
	b.stats.Rejected++
	b.mu.Unlock()
	b.log.Debug("push rejected", "err", err, "entries", n)
}

// Pop returns everything pushed since the last drain.
//
// On an empty buffer it suspends until the next Push or Close and has no
// timeout. Only one Pop may wait at a time; see ErrPopInFlight.
func (b *Buffer[T]) Pop() ([]T, error) {
	return b.PopContext(context.Background())
}

// PopContext is Pop bounded by ctx. If entries arrive while ctx is
// being cancelled, the entries are returned and the error is nil.
func (b *Buffer[T]) PopContext(ctx context.Context) ([]T, error) {
	b.mu.Lock()
	if b.popping {
		b.mu.Unlock()
		return nil, ErrPopInFlight
	}
	if items := b.drainLocked(); items != nil {
		b.mu.Unlock()
		return items, nil
	}
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	wake, err := b.waiter.Arm()
	if err != nil {
		b.mu.Unlock()
		return nil, ErrPopInFlight
	}
	b.popping = true
	b.mu.Unlock()

	var ctxErr error
	select {
	case <-wake:
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.popping = false
	b.waiter.Disarm()
	if items := b.drainLocked(); items != nil {
		return items, nil
	}
	if ctxErr != nil {
		return nil, ctxErr
	}
	// Woken with nothing pending only happens on Close.
	return nil, ErrClosed
}

// TryPop drains without waiting. Reports false if nothing was pending
// or another Pop is waiting.
func (b *Buffer[T]) TryPop() ([]T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.popping {
		return nil, false
	}
	items := b.drainLocked()
	return items, items != nil
}

func (b *Buffer[T]) drainLocked() []T {
	items := b.pending.Drain()
	if items != nil {
		b.stats.Drains++
	}
	return items
}

// Close stops accepting pushes and wakes a waiting consumer, which
// receives ErrClosed once nothing is pending. Pending entries stay
// drainable. Close is idempotent.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.waiter.Fire()
}

// Closed reports whether Close has been called.
func (b *Buffer[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the number of pending entries.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Len()
}

// State returns the current state.
func (b *Buffer[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.waiter.Armed():
		return StateWaiting
	case b.pending.Len() > 0:
		return StateHasData
	default:
		return StateIdle
	}
}

// Stats returns a snapshot of the traffic counters.
func (b *Buffer[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}
