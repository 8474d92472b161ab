package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/shiftbuf/internal/handoff"
)

var (
	benchIterations int
	benchBatch      int
	benchCapacity   int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare push+pop cost of the handoff buffer and a channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if benchIterations < 1 || benchBatch < 1 {
			return fmt.Errorf("-n and --batch must be positive")
		}
		return bench(cmd.OutOrStdout())
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchIterations, "iterations", "n", 1_000_000, "number of iterations")
	benchCmd.Flags().IntVar(&benchBatch, "batch", 8, "entries per push")
	benchCmd.Flags().IntVar(&benchCapacity, "capacity", 1024, "bounded buffer and channel capacity")
}

func bench(out io.Writer) error {
	n, size := benchIterations, benchBatch
	if benchCapacity < size {
		return fmt.Errorf("--capacity %d below --batch %d", benchCapacity, size)
	}
	batch := make([]int, size)
	for i := range batch {
		batch[i] = i
	}

	fmt.Fprintf(out, "Benchmarking batch handoff (%d iterations, batch=%d, capacity=%d)\n", n, size, benchCapacity)
	fmt.Fprintln(out, "─────────────────────────────────────────────────")

	// One send per entry, one receive per entry.
	ch := make(chan int, benchCapacity)
	start := time.Now()
	for i := 0; i < n; i++ {
		for _, v := range batch {
			ch <- v
		}
		for range batch {
			<-ch
		}
	}
	chDur := time.Since(start)

	unbounded := handoff.New[int]()
	ubDur, err := timeBuffer(unbounded, batch, n)
	if err != nil {
		return err
	}

	bounded := handoff.New[int](handoff.WithCapacity(benchCapacity))
	bDur, err := timeBuffer(bounded, batch, n)
	if err != nil {
		return err
	}

	perOp := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / float64(n) }
	chPerOp, ubPerOp, bPerOp := perOp(chDur), perOp(ubDur), perOp(bDur)

	fmt.Fprintf(out, "\nResults (push + pop of one batch per iteration):\n")
	fmt.Fprintf(out, "  Channel:            %v (%.2f ns/op)\n", chDur, chPerOp)
	fmt.Fprintf(out, "  Buffer (slice):     %v (%.2f ns/op)\n", ubDur, ubPerOp)
	fmt.Fprintf(out, "  Buffer (ring):      %v (%.2f ns/op)\n", bDur, bPerOp)

	best := min(ubPerOp, bPerOp)
	if best < chPerOp {
		fmt.Fprintf(out, "\n  Speedup:  %.2fx (Buffer faster)\n", chPerOp/best)
	} else {
		fmt.Fprintf(out, "\n  Speedup:  %.2fx (Channel faster)\n", best/chPerOp)
	}

	fmt.Fprintf(out, "\nThroughput (entries):\n")
	fmt.Fprintf(out, "  Channel:         %.2f M entries/sec\n", float64(size)*1000/chPerOp)
	fmt.Fprintf(out, "  Buffer (slice):  %.2f M entries/sec\n", float64(size)*1000/ubPerOp)
	fmt.Fprintf(out, "  Buffer (ring):   %.2f M entries/sec\n", float64(size)*1000/bPerOp)
	return nil
}

func timeBuffer(b *handoff.Buffer[int], batch []int, n int) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := b.Push(batch); err != nil {
			return 0, err
		}
		if _, ok := b.TryPop(); !ok {
			return 0, fmt.Errorf("iteration %d: pop found no data", i)
		}
	}
	return time.Since(start), nil
}
