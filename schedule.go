package feynman

import "time"

// Schedule maps weekdays to the mode posted that day. Days absent from the
// table default to ModeFact.
type Schedule map[time.Weekday]Mode

// DefaultSchedule returns the weekly posting table: facts most days, a
// hypothetical midweek, a puzzle before the weekend, and a synthesis that
// ties the week together on Sunday.
func DefaultSchedule() Schedule {
	return Schedule{
		time.Monday:    ModeFact,
		time.Tuesday:   ModeFact,
		time.Wednesday: ModeWhatIf,
		time.Thursday:  ModeFact,
		time.Friday:    ModePuzzle,
		time.Saturday:  ModeFact,
		time.Sunday:    ModeConnections,
	}
}

// ModeFor returns the mode scheduled for the given date. Pure and total:
// the same date always yields the same mode.
func (s Schedule) ModeFor(date time.Time) Mode {
	if mode, ok := s[date.Weekday()]; ok {
		return mode
	}
	return ModeFact
}
