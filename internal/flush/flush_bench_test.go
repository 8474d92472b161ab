package flush_test

import (
	"testing"
	"time"

	"github.com/randomizedcoder/shiftbuf/internal/flush"
)

// Long interval so Due() returns false (we're measuring check overhead)
const benchInterval = time.Hour

// Sink variable to prevent compiler from eliminating benchmark loops
var sinkDue bool

func BenchmarkTrigger_Count(b *testing.B) {
	trig := flush.NewCount(1 << 30)
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = trig.Due(i & 0xff)
	}
	sinkDue = result
}

func BenchmarkTrigger_Interval(b *testing.B) {
	trig := flush.NewInterval(benchInterval)
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = trig.Due(1)
	}
	sinkDue = result
}

func BenchmarkTrigger_Ticker(b *testing.B) {
	trig := flush.NewTicker(benchInterval)
	defer trig.Stop()
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = trig.Due(1)
	}
	sinkDue = result
}

func BenchmarkTrigger_Any_Interface(b *testing.B) {
	var trig flush.Trigger = flush.Any(flush.NewCount(1<<30), flush.NewInterval(benchInterval))
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = trig.Due(1)
	}
	sinkDue = result
}
