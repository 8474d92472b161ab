// Package flush decides when the fan-in pump hands its staged entries
// to the handoff buffer.
//
// This package offers several implementations of the Trigger interface:
//   - CountTrigger: Flush once N entries are staged
//   - IntervalTrigger: Flush when an interval elapsed, using runtime.nanotime
//   - TickerTrigger: Flush on a time.Ticker
//   - Any: Flush when any of several triggers is due
//
// Triggers are polled from the pump's hot loop, so Due must be cheap.
// No trigger is ever due with nothing staged.
package flush

import "time"

// Trigger reports whether staged entries should be flushed.
type Trigger interface {
	// Due reports whether the staged entries should be flushed now.
	// Always false when staged is zero.
	Due(staged int) bool

	// Reset starts a new flush window. Called after each flush.
	Reset()

	// Stop releases any resources held by the trigger.
	Stop()
}

// DefaultInterval is a reasonable flush interval for observer batches,
// about one animation frame.
const DefaultInterval = 16 * time.Millisecond
