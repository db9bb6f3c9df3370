package core

import (
	"time"
)

// isoMillisLayout matches the upstream API's series timestamps, millisecond
// precision with a literal Z suffix.
const isoMillisLayout = "2006-01-02T15:04:05.000Z"

// ISOMillis formats a timestamp as UTC ISO-8601 with millisecond precision.
func ISOMillis(t time.Time) string {
	return t.UTC().Format(isoMillisLayout)
}

// ParseTime parses an RFC3339 timestamp, with or without fractional seconds
// or an explicit offset.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(isoMillisLayout, s)
}

// ClockMinutesUTC converts a timestamp to minutes past midnight on the UTC
// clock, discarding seconds. A 23:30 bedtime is 1410 regardless of date.
func ClockMinutesUTC(t time.Time) float64 {
	u := t.UTC()
	return float64(u.Hour()*60 + u.Minute())
}
