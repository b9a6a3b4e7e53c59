package ingest

import (
	"testing"
	"time"

	"runeScope/internal/model"
)

func TestBackfillWindowsAligned(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

	got := BackfillWindows(from, to)
	if len(got) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(got))
	}

	for i, w := range got {
		wantStart := from.Add(time.Duration(i) * time.Hour)
		if !w.Start.Equal(wantStart) {
			t.Fatalf("window %d start mismatch: %v != %v", i, w.Start, wantStart)
		}
		if !w.End.Equal(w.Start.Add(time.Hour)) {
			t.Fatalf("window %d is not one hour wide: %v", i, w)
		}
		if i > 0 && !got[i-1].End.Equal(w.Start) {
			t.Fatalf("gap between windows %d and %d", i-1, i)
		}
	}

	if !got[2].End.Equal(to) {
		t.Fatalf("last window must end at range end: %v != %v", got[2].End, to)
	}
}

func TestBackfillWindowsUnalignedEnd(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC)

	// ceil(2.5h / 1h) = 3 windows; the last one covers the range end.
	got := BackfillWindows(from, to)
	if len(got) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(got))
	}
	if !got[2].End.After(to) {
		t.Fatalf("last window must cover range end: %v", got[2])
	}
}

func TestBackfillWindowsTruncatesStart(t *testing.T) {
	from := time.Date(2024, 3, 1, 5, 42, 17, 0, time.UTC)
	to := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)

	got := BackfillWindows(from, to)
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
	want := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(want) {
		t.Fatalf("start not truncated to the hour: %v", got[0].Start)
	}
}

func TestBackfillWindowsEmptyRange(t *testing.T) {
	at := time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)
	if got := BackfillWindows(at, at); got != nil {
		t.Fatalf("expected no windows, got %d", len(got))
	}
	if got := BackfillWindows(at.Add(time.Hour), at); got != nil {
		t.Fatalf("expected no windows for inverted range, got %d", len(got))
	}
}

func TestLastCompleted(t *testing.T) {
	ref := time.Date(2024, 3, 1, 14, 25, 9, 0, time.UTC)

	got := LastCompleted(ref)
	want := model.Window{
		Start: time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
	}
	if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Fatalf("window mismatch: %v != %v", got, want)
	}
}

func TestLastCompletedOnTheHour(t *testing.T) {
	ref := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

	got := LastCompleted(ref)
	if !got.End.Equal(ref) {
		t.Fatalf("window must end at the reference hour: %v", got)
	}
}
