package flush

// CountTrigger is due once at least N entries are staged.
type CountTrigger struct {
	every int
}

// NewCount creates a CountTrigger. every < 1 is treated as 1, which
// flushes each entry on its own.
func NewCount(every int) *CountTrigger {
	if every < 1 {
		every = 1
	}
	return &CountTrigger{every: every}
}

// Due reports whether staged reached the threshold.
func (c *CountTrigger) Due(staged int) bool {
	return staged > 0 && staged >= c.every
}

// Reset is a no-op; the count lives with the caller's staging area.
func (c *CountTrigger) Reset() {}

// Stop is a no-op for CountTrigger (no resources to release).
func (c *CountTrigger) Stop() {}

// Every returns the threshold.
func (c *CountTrigger) Every() int {
	return c.every
}
