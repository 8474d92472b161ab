package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/shiftbuf/internal/config"
	"github.com/randomizedcoder/shiftbuf/internal/fanin"
	"github.com/randomizedcoder/shiftbuf/internal/flush"
	"github.com/randomizedcoder/shiftbuf/internal/record"
	"github.com/randomizedcoder/shiftbuf/internal/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run SCENARIO...",
	Short: "Play scenario files and check their expectations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScenarios,
}

func init() {
	runCmd.Flags().Bool("fanin", false, "deliver frames through the fan-in collector")
	runCmd.Flags().Int("producers", 0, "fan-in producer count (default from config)")
	runCmd.Flags().Int("capacity", 0, "handoff buffer capacity, 0 is unbounded (default from config)")
	runCmd.Flags().String("record", "", "write popped batches to this msgpack file (single scenario only)")
	runCmd.Flags().Duration("timeout", 0, "per-scenario timeout (default from config)")
	runCmd.Flags().Float64("tolerance", 0, "score tolerance (default from config)")
}

// applyRunFlags overlays explicitly set flags onto c.
func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("fanin") {
		c.Fanin.Enabled, _ = f.GetBool("fanin")
	}
	if f.Changed("producers") {
		c.Fanin.Producers, _ = f.GetInt("producers")
	}
	if f.Changed("capacity") {
		c.Buffer.Capacity, _ = f.GetInt("capacity")
	}
	if f.Changed("record") {
		c.Run.Record, _ = f.GetString("record")
	}
	if f.Changed("timeout") {
		c.Run.Timeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("tolerance") {
		c.Run.Tolerance, _ = f.GetFloat64("tolerance")
	}
}

func faninConfig(c config.Config) *fanin.Config {
	if !c.Fanin.Enabled {
		return nil
	}
	return &fanin.Config{
		Capacity: c.Fanin.Capacity,
		Shards:   c.Fanin.Shards,
		Trigger: flush.Any(
			flush.NewCount(c.Fanin.FlushCount),
			flush.NewInterval(c.Fanin.FlushInterval),
		),
		IdleSleep: c.Fanin.IdleSleep,
		Logger:    logger,
	}
}

func runScenarios(cmd *cobra.Command, args []string) error {
	c := cfg
	applyRunFlags(cmd, &c)
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.Record != "" && len(args) > 1 {
		return errors.New("--record takes a single scenario")
	}

	failed := 0
	for _, path := range args {
		ok, err := runOne(cmd.Context(), cmd.OutOrStdout(), c, path)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}
	return nil
}

func runOne(ctx context.Context, out io.Writer, c config.Config, path string) (bool, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return false, err
	}

	opts := scenario.Options{
		Capacity:  c.Buffer.Capacity,
		Fanin:     faninConfig(c),
		Producers: c.Fanin.Producers,
		Logger:    logger,
	}

	var rec *record.Writer
	if c.Run.Record != "" {
		if rec, err = record.Create(c.Run.Record); err != nil {
			return false, err
		}
		defer rec.Close()
		opts.OnBatch = rec.Write
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if c.Run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Run.Timeout)
		defer cancel()
	}

	res, err := scenario.NewRunner(opts).Run(ctx, s)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			return false, err
		}
		logger.Info("recorded batches", "path", c.Run.Record, "session", rec.Session(), "batches", res.Batches)
	}

	mismatches := scenario.Check(res, s.Expect, c.Run.Tolerance)
	printResult(out, res, mismatches)
	return len(mismatches) == 0, nil
}

func printResult(out io.Writer, res *scenario.Result, mismatches []scenario.Mismatch) {
	status := color.New(color.FgGreen, color.Bold).Sprint("PASS")
	if len(mismatches) > 0 {
		status = color.New(color.FgRed, color.Bold).Sprint("FAIL")
	}
	fmt.Fprintf(out, "%s %s\n", status, res.Name)
	fmt.Fprintf(out, "     score=%.6f ukm=%d uma=%d entries=%d excluded=%d batches=%d (%v)\n",
		res.Score, res.UKM, res.UMA, len(res.Entries), res.Excluded, res.Batches, res.Elapsed)
	if res.Fanin != nil {
		fmt.Fprintf(out, "     fanin emitted=%d flushed=%d pushes=%d\n",
			res.Fanin.Emitted, res.Fanin.Flushed, res.Fanin.Batches)
	}
	warn := color.New(color.FgYellow).SprintFunc()
	for _, m := range mismatches {
		fmt.Fprintf(out, "     %s\n", warn(m.String()))
	}
}
