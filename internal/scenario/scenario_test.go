package scenario_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
	"github.com/randomizedcoder/shiftbuf/internal/scenario"
)

func load(t *testing.T, name string) *scenario.Scenario {
	t.Helper()
	s, err := scenario.Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return s
}

func TestLoad_SimpleBlockMovement(t *testing.T) {
	s := load(t, "simple-block-movement.toml")

	assert.Equal(t, "simple block movement", s.Name)
	require.Len(t, s.Frames, 1)
	assert.Equal(t, time.Millisecond, s.Frames[0].Delay)

	require.Len(t, s.Frames[0].Entries, 1)
	e := s.Frames[0].Entries[0]
	assert.InDelta(t, 0.15, e.Score, 1e-9)
	assert.Equal(t, 120*time.Millisecond, e.StartTime)
	require.Len(t, e.Sources, 1)
	assert.Equal(t, int64(7), e.Sources[0].NodeID)
	assert.Equal(t, layoutshift.Rect{X: 0, Y: 50, Width: 300, Height: 100}, e.Sources[0].NewRect)

	require.NotNil(t, s.Expect.UKM)
	assert.Equal(t, int64(15), *s.Expect.UKM)
	require.NotNil(t, s.Expect.UMA)
	assert.Equal(t, int32(2), *s.Expect.UMA)
}

func TestLoad_KeepsEmptyFrames(t *testing.T) {
	s := load(t, "recent-input.toml")

	require.Len(t, s.Frames, 3)
	assert.Empty(t, s.Frames[1].Entries)
	assert.Equal(t, 3, s.EntryCount())
	assert.True(t, s.Frames[0].Entries[1].HadRecentInput)
}

func TestLoad_AttributesMostImpactfulSources(t *testing.T) {
	s := load(t, "max-impact.toml")

	var names []string
	for _, src := range s.Frames[0].Entries[0].Sources {
		names = append(names, src.DebugName)
	}
	assert.Equal(t, []string{"a", "f", "c", "d", "e"}, names)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no name", `
[[frame]]
  [[frame.entry]]
  score = 0.1
`},
		{"no frames", `name = "x"`},
		{"negative score", `
name = "x"
[[frame]]
  [[frame.entry]]
  score = -0.1
`},
		{"short rect", `
name = "x"
[[frame]]
  [[frame.entry]]
  score = 0.1
    [[frame.entry.source]]
    old_rect = [0, 0, 10]
`},
		{"unknown key", `
name = "x"
colour = "red"
[[frame]]
`},
		{"entry count disagrees", `
name = "x"
[[frame]]
  [[frame.entry]]
  score = 0.1
[expect]
entry_count = 2
`},
		{"negative delay", `
name = "x"
[[frame]]
delay = "-1ms"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, scenario.ErrInvalid)
		})
	}
}

func TestParse_BadDuration(t *testing.T) {
	_, err := scenario.Parse([]byte(`
name = "x"
[[frame]]
delay = "soon"
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := scenario.Load(filepath.Join("testdata", "nope.toml"))
	assert.Error(t, err)
}
