// Package cancel provides the stop flag polled by the fan-in pump.
//
// The pump checks for shutdown on every iteration of its drain loop, so
// the check must be a single atomic load rather than a select on
// ctx.Done(). Watch bridges a context into that flag.
package cancel

// Canceler is a stop flag. Done and Cancel may be called from any
// goroutine.
type Canceler interface {
	// Done reports whether the flag has been tripped.
	Done() bool

	// Cancel trips the flag. Repeated calls are no-ops.
	Cancel()
}
