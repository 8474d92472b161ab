package queue

import (
	"sync/atomic"
)

// RingBuffer is the bounded Pending store: a power-of-two ring that
// accepts whole batches or nothing.
//
// One appender and one drainer may run concurrently without a lock. Two
// concurrent Appends, or two concurrent Drains, panic. The handoff
// buffer calls both under its mutex.
type RingBuffer[T any] struct {
	buf  []T
	mask uint64

	_pad0 [56]byte //nolint:unused

	head atomic.Uint64 // next write index

	_pad1 [56]byte //nolint:unused

	tail atomic.Uint64 // next read index

	_pad2 [56]byte //nolint:unused

	appendActive atomic.Uint32
	drainActive  atomic.Uint32
}

// NewRingBuffer returns a ring holding at least size entries.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}

	return &RingBuffer[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
}

// Append stores items if all of them fit and reports whether it did.
func (r *RingBuffer[T]) Append(items []T) bool {
	if !r.appendActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent RingBuffer.Append")
	}
	defer r.appendActive.Store(0)

	head := r.head.Load()
	tail := r.tail.Load()

	if head-tail+uint64(len(items)) > uint64(len(r.buf)) {
		return false
	}

	for i, v := range items {
		r.buf[(head+uint64(i))&r.mask] = v
	}

	r.head.Store(head + uint64(len(items)))

	return true
}

// Drain returns every stored entry in append order and empties the ring.
func (r *RingBuffer[T]) Drain() []T {
	if !r.drainActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent RingBuffer.Drain")
	}
	defer r.drainActive.Store(0)

	tail := r.tail.Load()
	head := r.head.Load()

	if tail >= head {
		return nil
	}

	var zero T
	out := make([]T, head-tail)
	for i := range out {
		idx := (tail + uint64(i)) & r.mask
		out[i] = r.buf[idx]
		r.buf[idx] = zero // drop references held by the slot
	}

	r.tail.Store(head)

	return out
}

// Len returns the stored entry count. Without external locking it may
// be stale by the time it returns.
func (r *RingBuffer[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	return int(head - tail)
}

// Cap returns the rounded capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.buf)
}
