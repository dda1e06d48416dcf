package service

import "time"

// Clock yields the current time in the directory's time zone. Open/closed
// evaluation reads the wall clock from it, so every service shares one.
type Clock struct {
	Location *time.Location
	NowFunc  func() time.Time
}

func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc}
}

// Now returns the current instant converted to Location (UTC when unset).
func (c Clock) Now() time.Time {
	now := time.Now()
	if c.NowFunc != nil {
		now = c.NowFunc()
	}
	if c.Location == nil {
		return now.UTC()
	}
	return now.In(c.Location)
}
