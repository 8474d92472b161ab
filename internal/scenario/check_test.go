package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
)

func ptr[T any](v T) *T { return &v }

func TestCheck(t *testing.T) {
	res := &Result{
		Entries: []layoutshift.Entry{{Score: 0.1}, {Score: 0.3}},
		Score:   0.4,
		UKM:     40,
		UMA:     4,
		Ordered: true,
	}

	tests := []struct {
		name   string
		exp    Expect
		fields []string
	}{
		{"empty expect", Expect{}, nil},
		{"all match", Expect{
			FinalScore: ptr(0.4 + 1e-9),
			EntryCount: ptr(2),
			UKM:        ptr(int64(40)),
			UMA:        ptr(int32(4)),
			Scores:     []float64{0.1, 0.3},
		}, nil},
		{"score off", Expect{FinalScore: ptr(0.41)}, []string{"final_score"}},
		{"count off", Expect{EntryCount: ptr(3)}, []string{"entry_count"}},
		{"ukm and uma off", Expect{UKM: ptr(int64(41)), UMA: ptr(int32(5))}, []string{"ukm", "uma"}},
		{"scores out of order", Expect{Scores: []float64{0.3, 0.1}}, []string{"scores[0]", "scores[1]"}},
		{"scores length", Expect{Scores: []float64{0.1}}, []string{"scores"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields []string
			for _, m := range Check(res, tt.exp, DefaultTolerance) {
				fields = append(fields, m.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestCheck_UnorderedScores(t *testing.T) {
	res := &Result{Entries: []layoutshift.Entry{{Score: 0.3}, {Score: 0.1}}}
	assert.Empty(t, Check(res, Expect{Scores: []float64{0.1, 0.3}}, -1))
}

func TestMismatchString(t *testing.T) {
	m := Mismatch{Field: "ukm", Want: "40", Got: "41"}
	assert.Equal(t, "ukm: want 40, got 41", m.String())
}
