package scenario

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/shiftbuf/internal/fanin"
	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

// Options configures a Runner.
type Options struct {
	// Capacity bounds the handoff buffer; zero is unbounded.
	Capacity int
	// Fanin, when set, routes frames through a fan-in collector fed by
	// Producers concurrent players instead of pushing directly.
	Fanin     *fanin.Config
	Producers int
	// OnBatch observes every popped batch, e.g. record.Writer.Write.
	OnBatch layoutshift.BatchFunc
	Logger  *slog.Logger
}

// Result is what the consumer saw.
type Result struct {
	Name     string
	Entries  []layoutshift.Entry
	Score    float64
	Counted  int
	Excluded int
	Batches  uint64
	UKM      int64
	UMA      int32
	// Ordered is false when entries from several producers interleave.
	Ordered bool
	Buffer  handoff.Stats
	Fanin   *fanin.Stats
	Elapsed time.Duration
}

// Runner plays scenarios against a fresh handoff buffer per run.
type Runner struct {
	opts Options
	log  *slog.Logger
}

// NewRunner returns a Runner.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.Producers < 1 {
		opts.Producers = 1
	}
	return &Runner{opts: opts, log: log}
}

// Run plays s and reads until the producer side closes the buffer.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	log := r.log.With("scenario", s.Name)
	start := time.Now()

	buf := handoff.New[layoutshift.Entry](
		handoff.WithCapacity(r.opts.Capacity),
		handoff.WithLogger(log),
	)
	readerOpts := []layoutshift.ReaderOption{layoutshift.WithReaderLogger(log)}
	if r.opts.OnBatch != nil {
		readerOpts = append(readerOpts, layoutshift.WithBatchFunc(r.opts.OnBatch))
	}
	reader := layoutshift.NewReader(buf, readerOpts...)
	player := NewPlayer(s, log)

	g, gctx := errgroup.WithContext(ctx)
	var collector *fanin.Collector[layoutshift.Entry]

	if r.opts.Fanin == nil {
		g.Go(func() error {
			defer buf.Close()
			n, err := player.Play(gctx, buf)
			log.Debug("player done", "entries", n)
			return err
		})
	} else {
		var err error
		collector, err = fanin.NewCollector(buf, *r.opts.Fanin)
		if err != nil {
			return nil, err
		}
		g.Go(func() error { return collector.Run(gctx) })
		g.Go(func() error {
			defer collector.Close()
			pg, pctx := errgroup.WithContext(gctx)
			for i, p := range player.Split(r.opts.Producers) {
				sink := emitSink{ctx: pctx, prod: collector.Producer(uint64(i))}
				pg.Go(func() error {
					_, err := p.Play(pctx, sink)
					return err
				})
			}
			return pg.Wait()
		})
	}

	var entries []layoutshift.Entry
	g.Go(func() error {
		var err error
		entries, err = reader.Drain(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := reader.Accumulator()
	res := &Result{
		Name:     s.Name,
		Entries:  entries,
		Score:    acc.Score(),
		Counted:  acc.Counted(),
		Excluded: acc.Excluded(),
		Batches:  reader.Batches(),
		UKM:      layoutshift.UKMValue(acc.Score()),
		UMA:      layoutshift.UMAValue(acc.Score()),
		Ordered:  r.opts.Fanin == nil || r.opts.Producers == 1,
		Buffer:   buf.Stats(),
		Elapsed:  time.Since(start),
	}
	if collector != nil {
		st := collector.Stats()
		res.Fanin = &st
	}
	log.Info("scenario done",
		"entries", len(entries),
		"batches", res.Batches,
		"score", res.Score,
		"elapsed", res.Elapsed)
	return res, nil
}

// emitSink adapts a fan-in producer to Sink.
type emitSink struct {
	ctx  context.Context
	prod *fanin.Producer[layoutshift.Entry]
}

func (s emitSink) Push(entries []layoutshift.Entry) error {
	if len(entries) == 0 {
		return handoff.ErrEmptyBatch
	}
	return s.prod.EmitAll(s.ctx, entries)
}
