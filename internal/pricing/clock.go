package pricing

import "time"

// Clock decides whether "now" is a weekend. It exists so handlers and tests
// can pin the date.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a clock on the system time in loc (server local when nil).
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: t.Location()}
}

// Today returns the current time in the clock's location.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

// IsWeekend reports whether today is Saturday or Sunday.
func (c Clock) IsWeekend() bool {
	return IsWeekend(c.Today(), nil)
}
