package layoutshift

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

// BatchFunc observes each popped batch. A non-nil error stops the Reader.
type BatchFunc func(seq uint64, entries []Entry) error

// Reader pops observation batches and keeps a running score.
type Reader struct {
	buf     *handoff.Buffer[Entry]
	acc     Accumulator
	seq     uint64
	onBatch BatchFunc
	log     *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithBatchFunc registers fn to run on every popped batch.
func WithBatchFunc(fn BatchFunc) ReaderOption {
	return func(r *Reader) { r.onBatch = fn }
}

// WithReaderLogger sets the Reader's logger.
func WithReaderLogger(l *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// NewReader creates a Reader over buf. The Reader is buf's only consumer.
func NewReader(buf *handoff.Buffer[Entry], opts ...ReaderOption) *Reader {
	r := &Reader{
		buf: buf,
		log: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next waits for the next batch and folds it into the score.
func (r *Reader) Next(ctx context.Context) ([]Entry, error) {
	entries, err := r.buf.PopContext(ctx)
	if err != nil {
		return nil, err
	}
	r.seq++
	r.acc.Add(entries...)
	r.log.Debug("batch", "seq", r.seq, "entries", len(entries), "score", r.acc.Score())
	if r.onBatch != nil {
		if err := r.onBatch(r.seq, entries); err != nil {
			return entries, err
		}
	}
	return entries, nil
}

// Collect reads batches until at least n entries arrived. If the buffer
// closes first, it returns what it got together with handoff.ErrClosed.
func (r *Reader) Collect(ctx context.Context, n int) ([]Entry, error) {
	var all []Entry
	for len(all) < n {
		entries, err := r.Next(ctx)
		all = append(all, entries...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// Drain reads batches until the buffer is closed and empty.
func (r *Reader) Drain(ctx context.Context) ([]Entry, error) {
	var all []Entry
	for {
		entries, err := r.Next(ctx)
		all = append(all, entries...)
		if errors.Is(err, handoff.ErrClosed) {
			return all, nil
		}
		if err != nil {
			return all, err
		}
	}
}

// Score returns the cumulative shift score so far.
func (r *Reader) Score() float64 { return r.acc.Score() }

// Accumulator returns a copy of the running totals.
func (r *Reader) Accumulator() Accumulator { return r.acc }

// Batches returns how many batches were popped.
func (r *Reader) Batches() uint64 { return r.seq }
