package core

import (
	"fmt"
	"sort"
	"time"
)

// DayFormat is the calendar-day layout used by every upstream endpoint.
const DayFormat = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form. All arithmetic is done in UTC
// so that the same wall date never maps to two different days.
type Day string

// ParseDay validates a YYYY-MM-DD string and returns it as a Day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayFormat, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(DayFormat))
}

// String returns the string representation
func (d Day) String() string {
	return string(d)
}

// IsZero checks if the day is empty
func (d Day) IsZero() bool {
	return d == ""
}

// Time returns midnight UTC of the day. Invalid days return the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// AddDays returns the day n calendar days later (or earlier for negative n).
// The shift is calendar addition, so it is safe across month and year
// boundaries and never depends on the caller's position in a slice.
func (d Day) AddDays(n int) Day {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// Weekday returns the UTC weekday (Sunday = 0).
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether the day falls on a UTC Saturday or Sunday.
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether d sorts before other. Lexical order on the
// YYYY-MM-DD form is chronological order.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// SortDays sorts days ascending in place.
func SortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
}
