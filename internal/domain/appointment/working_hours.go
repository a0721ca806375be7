package appointment

import (
	"time"
)

const (
	DefaultOpenHour  = 8
	DefaultCloseHour = 18
)

// Rules holds the shop's opening policy. Times are judged in Location.
type Rules struct {
	Location       *time.Location
	OpenHour       int
	CloseHour      int
	ClosedWeekdays []time.Weekday
}

func NewRules(loc *time.Location, closed []time.Weekday) Rules {
	if loc == nil {
		loc = time.UTC
	}
	return Rules{
		Location:       loc,
		OpenHour:       DefaultOpenHour,
		CloseHour:      DefaultCloseHour,
		ClosedWeekdays: closed,
	}
}

// Candidate is a prospective appointment write.
type Candidate struct {
	PetID       uint
	ServiceID   uint
	ScheduledAt time.Time
	// ExcludeID is the appointment being updated, 0 on create.
	ExcludeID uint
}

func (c Candidate) Creating() bool {
	return c.ExcludeID == 0
}

// IsWithinWorkingHours checks the time of day against [open, close]
// inclusive of the closing instant itself: 18:00 passes, 18:00:01 does not.
func (r Rules) IsWithinWorkingHours(at time.Time) bool {
	local := at.In(r.Location)

	open := time.Date(local.Year(), local.Month(), local.Day(), r.OpenHour, 0, 0, 0, r.Location)
	closing := time.Date(local.Year(), local.Month(), local.Day(), r.CloseHour, 0, 0, 0, r.Location)

	return !local.Before(open) && !local.After(closing)
}

func (r Rules) IsClosedDay(at time.Time) bool {
	wd := at.In(r.Location).Weekday()
	for _, closed := range r.ClosedWeekdays {
		if wd == closed {
			return true
		}
	}
	return false
}

// Check runs every rule that needs no store access, in order
// PastDate, OutOfHours, ClosedDay (creation only). DoubleBooking is
// evaluated by the caller inside the write transaction.
func (r Rules) Check(c Candidate, now time.Time) error {
	if c.ScheduledAt.Before(now) {
		return ErrPastDate
	}

	if !r.IsWithinWorkingHours(c.ScheduledAt) {
		return ErrOutOfHours
	}

	if c.Creating() && r.IsClosedDay(c.ScheduledAt) {
		return ErrClosedDay
	}

	return nil
}
