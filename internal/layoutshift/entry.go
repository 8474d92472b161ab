// Package layoutshift models layout-shift observations and the
// cumulative shift score computed from them.
//
// An observer delivers Entries in batches; a Reader pops those batches
// from a handoff buffer and folds them into an Accumulator.
package layoutshift

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidEntry is wrapped by Entry.Validate failures.
var ErrInvalidEntry = errors.New("layoutshift: invalid entry")

// Rect is a layout rectangle in CSS pixels.
type Rect struct {
	X      int `msgpack:"x"`
	Y      int `msgpack:"y"`
	Width  int `msgpack:"w"`
	Height int `msgpack:"h"`
}

// Area returns Width*Height.
func (r Rect) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}

// Source attributes part of a shift to one DOM node.
type Source struct {
	NodeID    int64  `msgpack:"node_id"`
	DebugName string `msgpack:"debug_name,omitempty"`
	OldRect   Rect   `msgpack:"old_rect"`
	NewRect   Rect   `msgpack:"new_rect"`
}

// ImpactArea is the area of the union of the old and new rects.
func (s Source) ImpactArea() int64 {
	return s.OldRect.Area() + s.NewRect.Area() - s.OldRect.Intersect(s.NewRect).Area()
}

// Entry is one layout-shift observation.
type Entry struct {
	Score          float64       `msgpack:"score"`
	HadRecentInput bool          `msgpack:"had_recent_input"`
	StartTime      time.Duration `msgpack:"start_time"`
	Sources        []Source      `msgpack:"sources,omitempty"`
}

// Validate rejects scores that cannot come from a real observer and
// rects with negative size.
func (e Entry) Validate() error {
	if math.IsNaN(e.Score) || math.IsInf(e.Score, 0) || e.Score < 0 {
		return fmt.Errorf("%w: score %v", ErrInvalidEntry, e.Score)
	}
	if e.StartTime < 0 {
		return fmt.Errorf("%w: start time %v", ErrInvalidEntry, e.StartTime)
	}
	for i, s := range e.Sources {
		if s.OldRect.Width < 0 || s.OldRect.Height < 0 || s.NewRect.Width < 0 || s.NewRect.Height < 0 {
			return fmt.Errorf("%w: source %d has a negative rect size", ErrInvalidEntry, i)
		}
	}
	return nil
}
