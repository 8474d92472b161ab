package flush

type anyTrigger []Trigger

// Any returns a Trigger that is due when any of ts is due.
// Every trigger is polled on each call so tickers keep draining.
func Any(ts ...Trigger) Trigger {
	return anyTrigger(ts)
}

func (a anyTrigger) Due(staged int) bool {
	due := false
	for _, t := range a {
		if t.Due(staged) {
			due = true
		}
	}
	return due
}

func (a anyTrigger) Reset() {
	for _, t := range a {
		t.Reset()
	}
}

func (a anyTrigger) Stop() {
	for _, t := range a {
		t.Stop()
	}
}
