package layoutshift_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
)

func TestReportValues(t *testing.T) {
	tests := []struct {
		score float64
		ukm   int64
		uma   int32
	}{
		{0, 0, 0},
		{0.1, 10, 1},
		{0.125, 13, 1},
		{0.25, 25, 3},
		{1.04, 104, 10},
		{10, 1000, 100},
		{42, 1000, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ukm, layoutshift.UKMValue(tt.score), "UKMValue(%v)", tt.score)
		assert.Equal(t, tt.uma, layoutshift.UMAValue(tt.score), "UMAValue(%v)", tt.score)
	}
}

func TestAccumulator(t *testing.T) {
	var acc layoutshift.Accumulator

	acc.Add(
		layoutshift.Entry{Score: 0.1},
		layoutshift.Entry{Score: 0.5, HadRecentInput: true},
		layoutshift.Entry{Score: 0.2},
	)

	assert.InDelta(t, 0.3, acc.Score(), 1e-9)
	assert.Equal(t, 2, acc.Counted())
	assert.Equal(t, 1, acc.Excluded())

	acc.Reset()
	assert.Zero(t, acc.Score())
	assert.Zero(t, acc.Counted())
}

func TestEntry_Validate(t *testing.T) {
	good := layoutshift.Entry{
		Score: 0.2,
		Sources: []layoutshift.Source{
			{NodeID: 1, OldRect: layoutshift.Rect{Width: 10, Height: 10}},
		},
	}
	assert.NoError(t, good.Validate())

	bad := []layoutshift.Entry{
		{Score: -0.1},
		{Score: math.NaN()},
		{Score: math.Inf(1)},
		{Score: 0.1, StartTime: -1},
		{Score: 0.1, Sources: []layoutshift.Source{{NewRect: layoutshift.Rect{Width: -1}}}},
	}
	for _, e := range bad {
		assert.ErrorIs(t, e.Validate(), layoutshift.ErrInvalidEntry, "entry %+v", e)
	}
}
