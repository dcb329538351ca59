package domain

import "time"

// Calendar supplies the league's notion of "now". Validation and execution
// never read the wall clock directly.
type Calendar interface {
	// SeasonYear is the current draft year used for pick windows.
	SeasonYear() int
	// Now is the current league date.
	Now() time.Time
}

// FixedCalendar is a Calendar pinned to one moment.
type FixedCalendar struct {
	Year int
	Date time.Time
}

func (c FixedCalendar) SeasonYear() int {
	if c.Year != 0 {
		return c.Year
	}
	return c.Date.Year()
}

func (c FixedCalendar) Now() time.Time { return c.Date }

// SystemCalendar reads the wall clock. If Year is non-zero it overrides the
// season year derived from the clock.
type SystemCalendar struct {
	Year int
}

func (c SystemCalendar) SeasonYear() int {
	if c.Year != 0 {
		return c.Year
	}
	return time.Now().UTC().Year()
}

func (c SystemCalendar) Now() time.Time { return time.Now().UTC() }
