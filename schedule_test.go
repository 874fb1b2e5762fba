package feynman

import (
	"testing"
	"time"
)

// TestDefaultSchedule_ModeForWeek checks the full weekly table against known
// calendar dates. 2025-06-02 is a Monday.
func TestDefaultSchedule_ModeForWeek(t *testing.T) {
	schedule := DefaultSchedule()
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	want := []Mode{
		ModeFact,        // Monday
		ModeFact,        // Tuesday
		ModeWhatIf,      // Wednesday
		ModeFact,        // Thursday
		ModePuzzle,      // Friday
		ModeFact,        // Saturday
		ModeConnections, // Sunday
	}

	for i, wantMode := range want {
		date := monday.AddDate(0, 0, i)
		if got := schedule.ModeFor(date); got != wantMode {
			t.Errorf("ModeFor(%s) = %q, want %q", date.Weekday(), got, wantMode)
		}
	}
}

// TestSchedule_ModeForIsPure verifies repeated lookups of the same date
// always agree.
func TestSchedule_ModeForIsPure(t *testing.T) {
	schedule := DefaultSchedule()
	date := time.Date(2025, 6, 4, 23, 59, 59, 0, time.UTC)

	first := schedule.ModeFor(date)
	for i := 0; i < 10; i++ {
		if got := schedule.ModeFor(date); got != first {
			t.Fatalf("ModeFor changed between calls: %q then %q", first, got)
		}
	}
}

// TestSchedule_MissingDayDefaultsToFact verifies a partial table is total.
func TestSchedule_MissingDayDefaultsToFact(t *testing.T) {
	schedule := Schedule{time.Friday: ModePuzzle}

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	if got := schedule.ModeFor(saturday); got != ModeFact {
		t.Errorf("ModeFor(unmapped day) = %q, want %q", got, ModeFact)
	}
}
