package ingest

import (
	"time"

	"runeScope/internal/model"
)

// BackfillWindows derives the hour-aligned windows covering [from, to].
// The sequence starts at from truncated to the hour and advances by exactly
// one hour per window, no gaps or duplicates. Re-running the same range is
// safe because every store write is idempotent.
func BackfillWindows(from, to time.Time) []model.Window {
	start := from.UTC().Truncate(time.Hour)
	end := to.UTC()
	if !start.Before(end) {
		return nil
	}

	windows := make([]model.Window, 0, int(end.Sub(start)/time.Hour)+1)
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		windows = append(windows, model.Window{Start: t, End: t.Add(time.Hour)})
	}
	return windows
}

// LastCompleted returns the most recently completed hour window relative to
// ref: [trunc(ref)-1h, trunc(ref)).
func LastCompleted(ref time.Time) model.Window {
	end := ref.UTC().Truncate(time.Hour)
	return model.Window{Start: end.Add(-time.Hour), End: end}
}
