package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHIFTBUF_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func scenarioPath(name string) string {
	return filepath.Join("..", "..", "internal", "scenario", "testdata", name)
}

func TestRunAndReplay(t *testing.T) {
	rec := filepath.Join(t.TempDir(), "batches.msgpack")

	out, err := execute(t, "run", "--record", rec, scenarioPath("recent-input.toml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS shifts after input are excluded")
	assert.Contains(t, out, "ukm=25 uma=3")

	out, err = execute(t, "replay", rec)
	require.NoError(t, err, out)
	assert.Contains(t, out, "score 0.250000 ukm=25 uma=3")
	assert.Contains(t, out, "entries=3")
}

func TestRunFanin(t *testing.T) {
	out, err := execute(t, "run", "--fanin", "--producers", "2", scenarioPath("simple-block-movement.toml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS simple block movement")
	assert.Contains(t, out, "fanin emitted=1 flushed=1")
}

func TestRunRecordNeedsSingleScenario(t *testing.T) {
	_, err := execute(t, "run", "--record", filepath.Join(t.TempDir(), "x"),
		scenarioPath("recent-input.toml"), scenarioPath("max-impact.toml"))
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "-n", "1000", "--batch", "4", "--capacity", "16")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Buffer (ring)")
}
