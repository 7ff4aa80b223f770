// Package timetable holds the pure scheduling core: the half-open interval
// model, the pairwise conflict detector and the pre-commit admission gate.
// Everything in here operates on an in-memory snapshot and performs no I/O.
package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schooldesk/timetable-api/internal/models"
)

// Interval places a course on a weekday as a half-open minute range
// [Start, End) with minutes counted from midnight.
type Interval struct {
	Day   string
	Start int
	End   int
}

// ParseClock converts a 24-hour "HH:MM" string to minutes from midnight in
// [0, 1440). A one-digit hour ("9:05") is accepted; minutes are always two
// digits.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hours*60 + minutes, nil
}

// NewInterval builds an Interval from clock strings, requiring start < end.
func NewInterval(day, start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("start %s must be before end %s", start, end)
	}
	return Interval{Day: day, Start: s, End: e}, nil
}

// Overlaps reports whether two intervals on the same day intersect under
// half-open semantics: a shared boundary (back-to-back bookings) is not an
// overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Day == o.Day && i.Start < o.End && o.Start < i.End
}

// intervalOf converts a stored course to its interval. Courses are validated
// before they are persisted, so a malformed row cannot occur here; the ok
// flag lets callers skip such a row rather than misreport it.
func intervalOf(c models.Course) (Interval, bool) {
	iv, err := NewInterval(c.Day, c.StartTime, c.EndTime)
	if err != nil {
		return Interval{}, false
	}
	return iv, true
}
