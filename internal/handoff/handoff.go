// Package handoff provides a single-slot async handoff buffer.
//
// A Buffer decouples an event-driven producer, which may push several
// batches before anyone reads, from one asynchronous consumer that wants
// everything that arrived since its last drain and blocks when nothing
// is available.
//
// # Consumer Contract (IMPORTANT)
//
// At most ONE Pop may be in flight at a time. The buffer keeps a single
// waiter slot; a second Pop while the first is suspended fails with
// ErrPopInFlight instead of stealing the first one's wakeup.
//
// Push may be called from any goroutine and never blocks on the consumer.
package handoff

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned by Push when called with no entries.
	// It is a caller bug, not a runtime condition.
	ErrEmptyBatch = errors.New("handoff: empty batch")
	// ErrPopInFlight is returned by Pop when another Pop is already waiting.
	ErrPopInFlight = errors.New("handoff: pop already in flight")
	// ErrClosed is returned by Push after Close, and by Pop once a closed
	// buffer has been drained.
	ErrClosed = errors.New("handoff: closed")
	// ErrFull is returned by Push on a bounded buffer that cannot take
	// the whole batch.
	ErrFull = errors.New("handoff: full")
)

// State is the observable state of a Buffer.
type State uint8

const (
	// StateIdle means nothing is pending and no consumer is waiting.
	StateIdle State = iota
	// StateHasData means entries are pending and no consumer is waiting.
	StateHasData
	// StateWaiting means a consumer is suspended on an empty buffer.
	StateWaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHasData:
		return "has_data"
	case StateWaiting:
		return "waiting"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Stats counts buffer traffic since creation.
type Stats struct {
	Pushes   uint64 // accepted Push calls
	Rejected uint64 // Push calls that returned an error
	Entries  uint64 // entries accepted
	Drains   uint64 // Pop/TryPop calls that returned a batch
	Wakeups  uint64 // pushes that resumed a waiting consumer
}
