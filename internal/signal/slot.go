// Package signal provides a single-waiter wake slot.
//
// A Slot holds at most one outstanding wait token. Firing the slot
// closes the token's channel, which resumes exactly the one goroutine
// parked on it.
package signal

import (
	"errors"
	"sync"
)

// ErrSlotBusy is returned by Arm when a waiter is already registered.
var ErrSlotBusy = errors.New("signal: slot already armed")

// Slot is a single-waiter wake handle. The zero value is ready to use.
type Slot struct {
	mu sync.Mutex
	ch chan struct{}
}

// Arm registers the waiter and returns the channel it should block on.
// Only one waiter may be armed at a time; a second Arm returns ErrSlotBusy
// and leaves the first registration untouched.
func (s *Slot) Arm() (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		return nil, ErrSlotBusy
	}
	s.ch = make(chan struct{})
	return s.ch, nil
}

// Fire wakes the armed waiter, if any, and disarms the slot.
// Reports whether a waiter was woken.
func (s *Slot) Fire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return false
	}
	close(s.ch)
	s.ch = nil
	return true
}

// Disarm drops the registration without waking anyone.
// Reports whether a waiter was armed.
func (s *Slot) Disarm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	armed := s.ch != nil
	s.ch = nil
	return armed
}

// Armed reports whether a waiter is registered.
func (s *Slot) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch != nil
}
