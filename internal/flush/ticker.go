package flush

import "time"

// TickerTrigger wraps time.Ticker.
//
// Each call to Due performs a non-blocking select on the ticker's
// channel. A tick that arrives with nothing staged is latched until
// something is.
type TickerTrigger struct {
	ticker   *time.Ticker
	interval time.Duration
	fired    bool
}

// NewTicker creates a TickerTrigger with the specified interval.
func NewTicker(interval time.Duration) *TickerTrigger {
	return &TickerTrigger{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Due reports whether a tick arrived and entries are staged.
func (t *TickerTrigger) Due(staged int) bool {
	if !t.fired {
		select {
		case <-t.ticker.C:
			t.fired = true
		default:
		}
	}
	return t.fired && staged > 0
}

// Reset clears the latched tick and restarts the ticker from now.
func (t *TickerTrigger) Reset() {
	t.fired = false
	t.ticker.Reset(t.interval)
}

// Stop stops the ticker and releases resources.
func (t *TickerTrigger) Stop() {
	t.ticker.Stop()
}

// Interval returns the ticker's interval.
func (t *TickerTrigger) Interval() time.Duration {
	return t.interval
}
