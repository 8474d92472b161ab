package layoutshift

import "math"

// MaxScore caps a shift score before it is quantized for reporting.
const MaxScore = 10.0

// UKMValue reports score*100 rounded, in [0, 1000].
func UKMValue(score float64) int64 {
	return int64(math.Round(math.Min(score, MaxScore) * 100))
}

// UMAValue reports score*10 rounded, in [0, 100].
func UMAValue(score float64) int32 {
	return int32(math.Round(math.Min(score, MaxScore) * 10))
}

// Accumulator folds entries into a cumulative shift score.
// Entries with recent input are excluded from the score.
type Accumulator struct {
	score    float64
	counted  int
	excluded int
}

// Add folds entries in order.
func (a *Accumulator) Add(entries ...Entry) {
	for _, e := range entries {
		if e.HadRecentInput {
			a.excluded++
			continue
		}
		a.score += e.Score
		a.counted++
	}
}

// Score returns the cumulative shift score so far.
func (a *Accumulator) Score() float64 { return a.score }

// Counted returns how many entries contributed to the score.
func (a *Accumulator) Counted() int { return a.counted }

// Excluded returns how many entries were skipped for recent input.
func (a *Accumulator) Excluded() int { return a.excluded }

// Reset clears the accumulator.
func (a *Accumulator) Reset() { *a = Accumulator{} }
