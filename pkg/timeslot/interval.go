package timeslot

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar-day format bookings are stored with. Dates are
// compared as stored, without timezone conversion.
const DateLayout = "2006-01-02"

// Times are wall-clock HH:MM with a mandatory leading zero. Fixed-width
// strings order lexicographically, so string comparison is time comparison.
var timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Interval is a half-open time range [Start, End) on a single calendar day.
type Interval struct {
	Date  string `json:"date"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// New builds an Interval, rejecting malformed dates and times and degenerate
// ranges (start >= end).
func New(date, start, end string) (Interval, error) {
	if !ValidDate(date) {
		return Interval{}, fmt.Errorf("invalid date %q, must be YYYY-MM-DD", date)
	}
	if !ValidTime(start) {
		return Interval{}, fmt.Errorf("invalid start time %q, must be HH:MM", start)
	}
	if !ValidTime(end) {
		return Interval{}, fmt.Errorf("invalid end time %q, must be HH:MM", end)
	}
	if start >= end {
		return Interval{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Interval{Date: date, Start: start, End: end}, nil
}

// Overlaps reports whether two intervals share any instant. Intervals on
// different dates never overlap; on the same date the half-open rule applies:
// each must start before the other ends.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.Date != other.Date {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Within reports whether the interval falls inside [open, close) wall-clock
// bounds, e.g. a room's operating hours.
func (iv Interval) Within(open, close string) bool {
	return iv.Start >= open && iv.End <= close
}

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func ValidTime(t string) bool {
	return timeRegex.MatchString(t)
}

// Clock is an explicit "now" in the same representation bookings use.
// Passing it in keeps conflict checks deterministic and testable.
type Clock struct {
	Date string
	Time string
}

func ClockAt(t time.Time) Clock {
	return Clock{
		Date: t.Format(DateLayout),
		Time: t.Format("15:04"),
	}
}

// EndsBefore reports whether the interval is fully in the past: its end has
// passed relative to now. A booking stays active until this holds.
func (iv Interval) EndsBefore(now Clock) bool {
	if iv.Date != now.Date {
		return iv.Date < now.Date
	}
	return iv.End <= now.Time
}

// StartsBefore reports whether the interval's start has already passed.
func (iv Interval) StartsBefore(now Clock) bool {
	if iv.Date != now.Date {
		return iv.Date < now.Date
	}
	return iv.Start < now.Time
}
