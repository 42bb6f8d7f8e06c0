package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// StayRange is the half-open date interval [CheckIn, CheckOut) of a stay,
// at day granularity. The check-out day itself is not an occupied night, so
// a new stay may check in on another stay's check-out date.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange builds a StayRange from the given dates, normalized to UTC
// midnight. Check-out must be strictly after check-in.
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	r := StayRange{CheckIn: truncateToDay(checkIn), CheckOut: truncateToDay(checkOut)}
	if !r.CheckOut.After(r.CheckIn) {
		return StayRange{}, fmt.Errorf("check-out %s must be after check-in %s",
			r.CheckOut.Format(DateLayout), r.CheckIn.Format(DateLayout))
	}
	return r, nil
}

// ParseStayRange builds a StayRange from two wire-format date strings.
func ParseStayRange(checkIn, checkOut string) (StayRange, error) {
	in, err := time.ParseInLocation(DateLayout, checkIn, time.UTC)
	if err != nil {
		return StayRange{}, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	out, err := time.ParseInLocation(DateLayout, checkOut, time.UTC)
	if err != nil {
		return StayRange{}, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	return NewStayRange(in, out)
}

// Nights returns the number of occupied nights in the range.
func (r StayRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Touching ranges (one's check-out equals the other's check-in) do not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// ContainsNight reports whether the given day is an occupied night of the range.
func (r StayRange) ContainsNight(day time.Time) bool {
	d := truncateToDay(day)
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}

// StartsBefore reports whether the stay checks in before the given day.
func (r StayRange) StartsBefore(day time.Time) bool {
	return r.CheckIn.Before(truncateToDay(day))
}

// EndsOnOrBefore reports whether the stay's check-out date is on or before
// the given day, i.e. the stay is over by that day.
func (r StayRange) EndsOnOrBefore(day time.Time) bool {
	return !r.CheckOut.After(truncateToDay(day))
}

func (r StayRange) String() string {
	return r.CheckIn.Format(DateLayout) + " to " + r.CheckOut.Format(DateLayout)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC day at midnight.
func Today(now time.Time) time.Time {
	return truncateToDay(now)
}
