package layoutshift_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
)

func entries(scores ...float64) []layoutshift.Entry {
	out := make([]layoutshift.Entry, len(scores))
	for i, s := range scores {
		out[i] = layoutshift.Entry{Score: s, StartTime: time.Duration(i) * time.Millisecond}
	}
	return out
}

func TestReader_Next(t *testing.T) {
	buf := handoff.New[layoutshift.Entry]()
	r := layoutshift.NewReader(buf)

	require.NoError(t, buf.Push(entries(0.1, 0.2)))
	require.NoError(t, buf.Push(entries(0.05)))

	got, err := r.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.InDelta(t, 0.35, r.Score(), 1e-9)
	assert.Equal(t, uint64(1), r.Batches())
}

func TestReader_CollectAcrossBatches(t *testing.T) {
	buf := handoff.New[layoutshift.Entry]()
	r := layoutshift.NewReader(buf)

	go func() {
		for i := 0; i < 3; i++ {
			time.Sleep(5 * time.Millisecond)
			_ = buf.Push(entries(0.1))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := r.Collect(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.InDelta(t, 0.3, r.Score(), 1e-9)
}

func TestReader_CollectStopsOnClose(t *testing.T) {
	buf := handoff.New[layoutshift.Entry]()
	r := layoutshift.NewReader(buf)

	require.NoError(t, buf.Push(entries(0.1)))
	buf.Close()

	got, err := r.Collect(context.Background(), 5)
	require.ErrorIs(t, err, handoff.ErrClosed)
	assert.Len(t, got, 1)
}

func TestReader_Drain(t *testing.T) {
	buf := handoff.New[layoutshift.Entry]()

	var seqs []uint64
	r := layoutshift.NewReader(buf, layoutshift.WithBatchFunc(func(seq uint64, _ []layoutshift.Entry) error {
		seqs = append(seqs, seq)
		return nil
	}))

	go func() {
		_ = buf.Push(entries(0.1, 0.1))
		time.Sleep(5 * time.Millisecond)
		_ = buf.Push(entries(0.3))
		time.Sleep(5 * time.Millisecond)
		buf.Close()
	}()

	got, err := r.Drain(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.InDelta(t, 0.5, r.Score(), 1e-9)
	assert.Equal(t, seqs, []uint64{1, 2}[:len(seqs)])
	assert.Equal(t, r.Batches(), uint64(len(seqs)))
}

func TestReader_BatchFuncErrorStops(t *testing.T) {
	buf := handoff.New[layoutshift.Entry]()
	boom := errors.New("boom")
	r := layoutshift.NewReader(buf, layoutshift.WithBatchFunc(func(uint64, []layoutshift.Entry) error {
		return boom
	}))

	require.NoError(t, buf.Push(entries(0.1)))
	_, err := r.Drain(context.Background())
	require.ErrorIs(t, err, boom)
}
