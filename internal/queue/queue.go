// Package queue provides the pending-entry storage behind a handoff buffer.
//
// This package offers two implementations of the Pending interface:
//   - SliceQueue: Unbounded, backed by a growable slice
//   - RingBuffer: Bounded lock-free ring with a fixed power-of-two capacity
//
// # RingBuffer Safety (IMPORTANT)
//
// RingBuffer is a Single-Producer Single-Consumer (SPSC) queue.
// It is NOT safe for multiple goroutines to call Append() or Drain() concurrently.
//
// The implementation includes runtime guards that panic on misuse.
//
// Correct usage:
//   - Exactly ONE goroutine calls Append() at a time
//   - Exactly ONE goroutine calls Drain() at a time
//   - These may be the same goroutine or different goroutines
package queue

// Pending is an ordered sequence of entries waiting for a single consumer.
//
// Producers append whole batches; the consumer takes everything at once.
type Pending[T any] interface {
	// Append adds items to the tail, preserving their order.
	// Returns false if the batch does not fit; nothing is stored in that case.
	Append(items []T) bool

	// Drain removes and returns every pending item in arrival order.
	// Returns nil if nothing is pending.
	Drain() []T

	// Len returns the number of pending items.
	Len() int
}
