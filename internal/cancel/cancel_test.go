package cancel_test

import (
	"context"
	"testing"
	"time"

	"github.com/randomizedcoder/shiftbuf/internal/cancel"
)

func TestAtomicCanceler_Lifecycle(t *testing.T) {
	c := cancel.NewAtomic()
	steps := []struct {
		name string
		do   func()
		want bool
	}{
		{"fresh", func() {}, false},
		{"cancel", c.Cancel, true},
		{"cancel again", c.Cancel, true},
		{"reset", c.Reset, false},
		{"cancel after reset", c.Cancel, true},
	}
	for _, s := range steps {
		s.do()
		if got := c.Done(); got != s.want {
			t.Fatalf("%s: Done() = %v, want %v", s.name, got, s.want)
		}
	}
}

var _ cancel.Canceler = (*cancel.AtomicCanceler)(nil)

func TestWatch_TripsOnContextCancel(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	c, release := cancel.Watch(ctx)
	defer release()

	if c.Done() {
		t.Fatal("expected Done() = false before context cancel")
	}

	cancelCtx()

	deadline := time.Now().Add(time.Second)
	for !c.Done() {
		if time.Now().After(deadline) {
			t.Fatal("Watch() did not trip after context cancel")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWatch_AlreadyDone(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	c, release := cancel.Watch(ctx)
	defer release()

	if !c.Done() {
		t.Error("expected Done() = true for an already cancelled context")
	}
}

func TestWatch_ReleaseDetaches(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	c, release := cancel.Watch(ctx)

	release()
	cancelCtx()
	time.Sleep(10 * time.Millisecond)

	if c.Done() {
		t.Error("expected Done() = false after release")
	}
}

// Test that the implementation satisfies the interface
func TestCancelerInterface(t *testing.T) {
	var c cancel.Canceler = cancel.NewAtomic()

	if c.Done() {
		t.Error("expected Done() = false initially")
	}
	c.Cancel()
	if !c.Done() {
		t.Error("expected Done() = true after Cancel()")
	}
}
