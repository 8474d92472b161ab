// Package fanin funnels entries from many producers into one handoff
// buffer.
//
// Producers write into a sharded lock-free ring (one shard per producer
// id modulo the shard count). A single pump goroutine drains the ring,
// stages entries, and pushes the staged batch whenever its flush trigger
// is due. Order is preserved per producer, not across producers.
package fanin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/shiftbuf/internal/cancel"
	"github.com/randomizedcoder/shiftbuf/internal/flush"
	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("fanin: closed")

// Config configures a Collector.
type Config struct {
	// Capacity is the total ring capacity across shards.
	Capacity uint64
	// Shards is the number of ring shards; use one per producer.
	Shards uint64
	// Trigger decides when staged entries are pushed. Defaults to
	// flushing every 16ms or 64 entries, whichever comes first.
	Trigger flush.Trigger
	// IdleSleep is how long the pump sleeps when the ring is empty.
	IdleSleep time.Duration
	// Logger receives pump lifecycle logs.
	Logger *slog.Logger
}

const (
	DefaultCapacity  = 1024
	DefaultShards    = 4
	DefaultIdleSleep = 50 * time.Microsecond
	defaultFlushSize = 64
)

// Stats counts collector traffic.
type Stats struct {
	Emitted uint64 // entries written by producers
	Flushed uint64 // entries pushed to the buffer
	Batches uint64 // successful pushes
}

// Collector owns the producer side of a handoff buffer.
type Collector[T any] struct {
	ring    *ring.ShardedRing
	buf     *handoff.Buffer[T]
	trigger flush.Trigger
	closing *cancel.AtomicCanceler
	idle    time.Duration
	log     *slog.Logger

	emitted atomic.Uint64
	flushed atomic.Uint64
	batches atomic.Uint64
}

// NewCollector creates a Collector feeding buf. The Collector must be
// buf's only producer: Run closes buf when it returns.
func NewCollector[T any](buf *handoff.Buffer[T], cfg Config) (*Collector[T], error) {
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Shards == 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = DefaultIdleSleep
	}
	if cfg.Trigger == nil {
		cfg.Trigger = flush.Any(flush.NewCount(defaultFlushSize), flush.NewInterval(flush.DefaultInterval))
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	r, err := ring.NewShardedRing(cfg.Capacity, cfg.Shards)
	if err != nil {
		return nil, fmt.Errorf("fanin: ring (capacity %d, shards %d): %w", cfg.Capacity, cfg.Shards, err)
	}

	return &Collector[T]{
		ring:    r,
		buf:     buf,
		trigger: cfg.Trigger,
		closing: cancel.NewAtomic(),
		idle:    cfg.IdleSleep,
		log:     cfg.Logger,
	}, nil
}

// Producer returns the handle producer id writes through.
func (c *Collector[T]) Producer(id uint64) *Producer[T] {
	return &Producer[T]{c: c, id: id}
}

// Close tells the pump to drain what is left, flush it, and return.
// Call it after every producer has returned from Emit.
func (c *Collector[T]) Close() {
	c.closing.Cancel()
}

// Stats returns a snapshot of the counters.
func (c *Collector[T]) Stats() Stats {
	return Stats{
		Emitted: c.emitted.Load(),
		Flushed: c.flushed.Load(),
		Batches: c.batches.Load(),
	}
}

// Run pumps entries from the ring into the buffer until Close or ctx
// ends. It closes the buffer on return. On ctx cancellation staged
// entries are pushed before returning ctx.Err().
func (c *Collector[T]) Run(ctx context.Context) error {
	stop, release := cancel.Watch(ctx)
	defer release()
	defer c.trigger.Stop()
	defer c.buf.Close()

	c.log.Debug("pump started")

	var (
		staged []T
		full   bool
	)
	for {
		read := false
		if !full {
			var v any
			v, read = c.ring.TryRead()
			if read {
				staged = append(staged, v.(T))
			}
		}

		if full || c.trigger.Due(len(staged)) {
			var err error
			staged, full, err = c.push(staged)
			if err != nil {
				return err
			}
		}

		if stop.Done() {
			if len(staged) > 0 {
				_, _, _ = c.push(staged)
			}
			c.log.Debug("pump cancelled", "emitted", c.emitted.Load(), "flushed", c.flushed.Load())
			return ctx.Err()
		}

		if read {
			continue
		}
		if c.closing.Done() && !full {
			return c.finish(ctx, stop, staged)
		}
		time.Sleep(c.idle)
	}
}

// push hands staged to the buffer. A full bounded buffer keeps the
// entries staged and stops the pump reading until the consumer drains.
func (c *Collector[T]) push(staged []T) ([]T, bool, error) {
	err := c.buf.Push(staged)
	if errors.Is(err, handoff.ErrFull) && c.buf.Len() == 0 {
		// The consumer may have drained after the first attempt. The
		// collector is the only producer, so failing again on an empty
		// buffer means the batch can never fit.
		if err = c.buf.Push(staged); errors.Is(err, handoff.ErrFull) {
			return staged, false, fmt.Errorf("fanin: batch of %d exceeds buffer capacity: %w", len(staged), err)
		}
	}
	switch {
	case err == nil:
		c.flushed.Add(uint64(len(staged)))
		c.batches.Add(1)
		c.trigger.Reset()
		return nil, false, nil
	case errors.Is(err, handoff.ErrFull):
		return staged, true, nil
	default:
		return staged, false, fmt.Errorf("fanin: push %d entries: %w", len(staged), err)
	}
}

func (c *Collector[T]) finish(ctx context.Context, stop cancel.Canceler, staged []T) error {
	full := false
	for {
		if stop.Done() {
			return ctx.Err()
		}
		read := false
		if !full {
			var v any
			if v, read = c.ring.TryRead(); read {
				staged = append(staged, v.(T))
			}
		}
		if len(staged) == 0 {
			c.log.Debug("pump finished", "emitted", c.emitted.Load(), "flushed", c.flushed.Load(), "batches", c.batches.Load())
			return nil
		}
		if full || !read || c.trigger.Due(len(staged)) {
			var err error
			staged, full, err = c.push(staged)
			if err != nil {
				return err
			}
			if full {
				time.Sleep(c.idle)
			}
		}
	}
}

// Producer writes entries for one producer id.
type Producer[T any] struct {
	c  *Collector[T]
	id uint64
}

// Emit writes v, spinning while the producer's shard is full.
func (p *Producer[T]) Emit(ctx context.Context, v T) error {
	if p.c.closing.Done() {
		return ErrClosed
	}
	for !p.c.ring.Write(p.id, v) {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	p.c.emitted.Add(1)
	return nil
}

// EmitAll writes vs in order.
func (p *Producer[T]) EmitAll(ctx context.Context, vs []T) error {
	for _, v := range vs {
		if err := p.Emit(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
