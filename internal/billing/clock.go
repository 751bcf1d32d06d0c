// Package billing holds the pure calculation rules shared by the job
// ticket and invoice handlers: wall-clock duration math, invoice totals,
// and ticket/invoice number generation.
package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day with no date or zone attached.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string. A malformed value is a real error,
// distinct from the empty string, which callers treat as "not entered yet".
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid clock time %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock time %q", s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock time %q out of range", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// DurationHours returns the decimal hours between start and end, rounded
// to two places. An end before the start is read as an overnight span and
// wraps forward by 24 hours, so the result is always in [0, 24).
func DurationHours(start, end Clock) float64 {
	minutes := end.minutes() - start.minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return round2(float64(minutes) / 60)
}

// DurationHoursFromStrings is the handler-facing form: it parses both
// clock strings and computes the span. Empty inputs yield ok=false with no
// error, leaving the caller's stored hours untouched.
func DurationHoursFromStrings(start, end string) (hours float64, ok bool, err error) {
	if start == "" || end == "" {
		return 0, false, nil
	}

	s, err := ParseClock(start)
	if err != nil {
		return 0, false, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, false, err
	}
	return DurationHours(s, e), true, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
