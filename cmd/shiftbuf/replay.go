package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/shiftbuf/internal/handoff"
	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
	"github.com/randomizedcoder/shiftbuf/internal/record"
)

var replayVerbose bool

var replayCmd = &cobra.Command{
	Use:   "replay RECORD",
	Short: "Push a recorded batch stream back through the buffer and rescore it",
	Args:  cobra.ExactArgs(1),
	RunE:  replay,
}

func init() {
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "print every batch")
}

func replay(cmd *cobra.Command, args []string) error {
	r, err := record.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	batches, err := r.ReadAll()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	buf := handoff.New[layoutshift.Entry](handoff.WithLogger(logger))
	reader := layoutshift.NewReader(buf, layoutshift.WithReaderLogger(logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer buf.Close()
		for _, b := range batches {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := buf.Push(b.Entries); err != nil {
				return fmt.Errorf("batch %d: %w", b.Seq, err)
			}
		}
		return nil
	})

	var entries []layoutshift.Entry
	g.Go(func() error {
		var err error
		entries, err = reader.Drain(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	if len(batches) > 0 {
		fmt.Fprintf(out, "%s %s\n", bold("session"), batches[0].Session)
	}
	if replayVerbose {
		for _, b := range batches {
			fmt.Fprintf(out, "  #%-4d %s  %d entries\n", b.Seq, b.At.Format("15:04:05.000000"), len(b.Entries))
		}
	}
	score := reader.Score()
	fmt.Fprintf(out, "%s %.6f ukm=%d uma=%d\n", bold("score"), score,
		layoutshift.UKMValue(score), layoutshift.UMAValue(score))
	fmt.Fprintf(out, "recorded batches=%d replayed batches=%d entries=%d\n",
		len(batches), reader.Batches(), len(entries))
	return nil
}
