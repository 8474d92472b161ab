// Command shiftbuf replays layout-shift observer scenarios through the
// handoff buffer, replays recorded batch streams, and benchmarks the
// buffer against a channel.
//
// Usage:
//
//	shiftbuf run testdata/simple-block-movement.toml
//	shiftbuf run --fanin --producers 4 --record out.msgpack scenario.toml
//	shiftbuf replay out.msgpack
//	shiftbuf bench -n 1000000 --batch 8
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/randomizedcoder/shiftbuf/internal/config"
	"github.com/randomizedcoder/shiftbuf/internal/logging"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "shiftbuf",
	Short:             "Layout-shift batch handoff harness",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (default $SHIFTBUF_CONFIG or <user config dir>/shiftbuf/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	if cfg, err = config.Load(path); err != nil {
		return err
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if logger, err = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("--color %q: want auto, on or off", colorFlag)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
