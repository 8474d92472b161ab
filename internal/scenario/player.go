package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

// Sink receives observer deliveries. *handoff.Buffer[layoutshift.Entry]
// satisfies it.
type Sink interface {
	Push(entries []layoutshift.Entry) error
}

// fullRetry is how long Play backs off when a bounded sink is full.
const fullRetry = time.Millisecond

// Player replays a scenario's frames into a Sink.
type Player struct {
	frames []Frame
	log    *slog.Logger
}

// NewPlayer plays every frame of s.
func NewPlayer(s *Scenario, log *slog.Logger) *Player {
	if log == nil {
		log = logging.Discard()
	}
	return &Player{frames: s.Frames, log: log}
}

// Split deals frames round-robin to n players. Each player keeps the
// delays of the frames it received.
func (p *Player) Split(n int) []*Player {
	if n < 1 {
		n = 1
	}
	out := make([]*Player, n)
	for i := range out {
		out[i] = &Player{log: p.log.With("player", i)}
	}
	for i, f := range p.frames {
		out[i%n].frames = append(out[i%n].frames, f)
	}
	return out
}

// Frames returns how many frames p will play.
func (p *Player) Frames() int { return len(p.frames) }

// Play waits each frame's delay and pushes its entries. Empty frames are
// skipped. A full bounded sink is retried until it accepts the frame or
// ctx ends. Play returns the number of entries pushed.
func (p *Player) Play(ctx context.Context, sink Sink) (int, error) {
	pushed := 0
	for i, f := range p.frames {
		if err := sleep(ctx, f.Delay); err != nil {
			return pushed, err
		}
		if len(f.Entries) == 0 {
			p.log.Debug("skip empty frame", "frame", i)
			continue
		}
		if err := p.push(ctx, sink, f.Entries); err != nil {
			return pushed, err
		}
		pushed += len(f.Entries)
	}
	return pushed, nil
}

func (p *Player) push(ctx context.Context, sink Sink, entries []layoutshift.Entry) error {
	batch := make([]layoutshift.Entry, len(entries))
	copy(batch, entries)
	for {
		err := sink.Push(batch)
		if !errors.Is(err, handoff.ErrFull) {
			return err
		}
		if l, ok := sink.(interface{ Len() int }); ok && l.Len() == 0 {
			return fmt.Errorf("frame of %d entries exceeds sink capacity: %w", len(batch), err)
		}
		p.log.Debug("sink full, retrying", "entries", len(batch))
		if err := sleep(ctx, fullRetry); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
