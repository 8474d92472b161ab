package queue

// SliceQueue is an unbounded Pending backed by a slice.
//
// Drain hands the backing array to the caller and starts a fresh one,
// so a drained batch is never aliased by later appends.
type SliceQueue[T any] struct {
	items []T
	hint  int
}

// NewSlice creates a SliceQueue. hint pre-sizes the slice allocated
// after each drain; zero lets append grow it.
func NewSlice[T any](hint int) *SliceQueue[T] {
	if hint < 0 {
		hint = 0
	}
	return &SliceQueue[T]{hint: hint}
}

// Append adds items to the queue. Always returns true.
func (q *SliceQueue[T]) Append(items []T) bool {
	if q.items == nil && q.hint > 0 {
		q.items = make([]T, 0, max(q.hint, len(items)))
	}
	q.items = append(q.items, items...)
	return true
}

// Drain removes and returns all pending items.
func (q *SliceQueue[T]) Drain() []T {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the current number of items in the queue.
func (q *SliceQueue[T]) Len() int {
	return len(q.items)
}
