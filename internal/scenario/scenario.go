// Package scenario loads TOML scenario files that describe what a
// layout-shift observer delivers, frame by frame, and what score the
// consumer should end up with.
//
// A scenario looks like:
//
//	name = "simple block movement"
//
//	[[frame]]
//	delay = "16ms"
//
//	  [[frame.entry]]
//	  score = 0.15
//
//	    [[frame.entry.source]]
//	    node_id = 7
//	    old_rect = [0, 0, 300, 100]
//	    new_rect = [0, 50, 300, 100]
//
//	[expect]
//	final_score = 0.15
//	ukm = 15
//	uma = 2
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
)

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("scenario: invalid")

// Scenario is a validated scenario ready to play.
type Scenario struct {
	Name   string
	Frames []Frame
	Expect Expect
}

// Frame is one observer delivery. Frames without entries are kept so
// their delay still elapses, but they are never pushed.
type Frame struct {
	Delay   time.Duration
	Entries []layoutshift.Entry
}

// Expect lists the checks applied to a run. Nil fields are not checked.
type Expect struct {
	FinalScore *float64  `toml:"final_score"`
	EntryCount *int      `toml:"entry_count"`
	UKM        *int64    `toml:"ukm"`
	UMA        *int32    `toml:"uma"`
	Scores     []float64 `toml:"scores"`
}

// EntryCount returns the number of entries across all frames.
func (s *Scenario) EntryCount() int {
	n := 0
	for _, f := range s.Frames {
		n += len(f.Entries)
	}
	return n
}

// duration decodes TOML strings such as "16ms".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type fileSource struct {
	NodeID    int64  `toml:"node_id"`
	DebugName string `toml:"debug_name"`
	OldRect   []int  `toml:"old_rect"`
	NewRect   []int  `toml:"new_rect"`
}

type fileEntry struct {
	Score          float64      `toml:"score"`
	HadRecentInput bool         `toml:"had_recent_input"`
	StartTime      duration     `toml:"start_time"`
	Sources        []fileSource `toml:"source"`
}

type fileFrame struct {
	Delay   duration    `toml:"delay"`
	Entries []fileEntry `toml:"entry"`
}

type file struct {
	Name   string      `toml:"name"`
	Frames []fileFrame `toml:"frame"`
	Expect Expect      `toml:"expect"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	s := &Scenario{Name: f.Name, Expect: f.Expect}
	for i, ff := range f.Frames {
		frame := Frame{Delay: ff.Delay.Duration}
		for j, fe := range ff.Entries {
			e, err := fe.entry()
			if err != nil {
				return nil, fmt.Errorf("frame %d entry %d: %w", i, j, err)
			}
			frame.Entries = append(frame.Entries, e)
		}
		s.Frames = append(s.Frames, frame)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (fe fileEntry) entry() (layoutshift.Entry, error) {
	e := layoutshift.Entry{
		Score:          fe.Score,
		HadRecentInput: fe.HadRecentInput,
		StartTime:      fe.StartTime.Duration,
	}
	sources := make([]layoutshift.Source, 0, len(fe.Sources))
	for k, fs := range fe.Sources {
		oldRect, err := rect(fs.OldRect)
		if err != nil {
			return e, fmt.Errorf("source %d old_rect: %w", k, err)
		}
		newRect, err := rect(fs.NewRect)
		if err != nil {
			return e, fmt.Errorf("source %d new_rect: %w", k, err)
		}
		sources = append(sources, layoutshift.Source{
			NodeID:    fs.NodeID,
			DebugName: fs.DebugName,
			OldRect:   oldRect,
			NewRect:   newRect,
		})
	}
	// The observer only ever reports the most impactful sources.
	e.Sources = layoutshift.Attribute(sources, layoutshift.MaxImpactedSources)
	return e, nil
}

func rect(v []int) (layoutshift.Rect, error) {
	if len(v) == 0 {
		return layoutshift.Rect{}, nil
	}
	if len(v) != 4 {
		return layoutshift.Rect{}, fmt.Errorf("%w: want [x, y, width, height], got %d values", ErrInvalid, len(v))
	}
	return layoutshift.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// Validate checks frames and expectations.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalid)
	}
	for i, f := range s.Frames {
		if f.Delay < 0 {
			return fmt.Errorf("%w: frame %d has negative delay", ErrInvalid, i)
		}
		for j, e := range f.Entries {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("%w: frame %d entry %d: %w", ErrInvalid, i, j, err)
			}
		}
	}
	x := s.Expect
	if x.EntryCount != nil && *x.EntryCount != s.EntryCount() {
		return fmt.Errorf("%w: expect.entry_count %d but scenario has %d entries", ErrInvalid, *x.EntryCount, s.EntryCount())
	}
	if x.Scores != nil && len(x.Scores) != s.EntryCount() {
		return fmt.Errorf("%w: expect.scores has %d values for %d entries", ErrInvalid, len(x.Scores), s.EntryCount())
	}
	return nil
}
