package model

import (
	"fmt"
	"time"
)

// Window is a half-open hour-aligned interval [Start, End). Windows are the
// unit of storage granularity; a pool's records are keyed by (Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowAt builds the window starting at the hour containing ts.
func WindowAt(ts time.Time) Window {
	start := ts.UTC().Truncate(time.Hour)
	return Window{Start: start, End: start.Add(time.Hour)}
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start.Unix(), w.End.Unix())
}
