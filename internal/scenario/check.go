package scenario

import (
	"fmt"
	"math"
	"slices"
)

// DefaultTolerance is the score comparison tolerance.
const DefaultTolerance = 1e-6

// Mismatch is one failed expectation.
type Mismatch struct {
	Field string
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %s, got %s", m.Field, m.Want, m.Got)
}

// Check compares res against exp. Scores are compared within tol; a
// negative tol selects DefaultTolerance. Per-entry scores are compared
// in order when res is ordered and as sorted multisets otherwise.
func Check(res *Result, exp Expect, tol float64) []Mismatch {
	if tol < 0 {
		tol = DefaultTolerance
	}
	var out []Mismatch
	if exp.FinalScore != nil && !near(*exp.FinalScore, res.Score, tol) {
		out = append(out, Mismatch{"final_score", fmtScore(*exp.FinalScore), fmtScore(res.Score)})
	}
	if exp.EntryCount != nil && *exp.EntryCount != len(res.Entries) {
		out = append(out, Mismatch{"entry_count", fmt.Sprint(*exp.EntryCount), fmt.Sprint(len(res.Entries))})
	}
	if exp.UKM != nil && *exp.UKM != res.UKM {
		out = append(out, Mismatch{"ukm", fmt.Sprint(*exp.UKM), fmt.Sprint(res.UKM)})
	}
	if exp.UMA != nil && *exp.UMA != res.UMA {
		out = append(out, Mismatch{"uma", fmt.Sprint(*exp.UMA), fmt.Sprint(res.UMA)})
	}
	if exp.Scores != nil {
		out = append(out, checkScores(res, exp.Scores, tol)...)
	}
	return out
}

func checkScores(res *Result, want []float64, tol float64) []Mismatch {
	got := make([]float64, len(res.Entries))
	for i, e := range res.Entries {
		got[i] = e.Score
	}
	if len(got) != len(want) {
		return []Mismatch{{"scores", fmt.Sprintf("%d values", len(want)), fmt.Sprintf("%d values", len(got))}}
	}
	if !res.Ordered {
		want = slices.Clone(want)
		slices.Sort(want)
		slices.Sort(got)
	}
	var out []Mismatch
	for i := range want {
		if !near(want[i], got[i], tol) {
			out = append(out, Mismatch{fmt.Sprintf("scores[%d]", i), fmtScore(want[i]), fmtScore(got[i])})
		}
	}
	return out
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
