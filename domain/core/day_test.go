package core

import (
	"testing"
	"time"
)

func TestDayAddDaysCalendarBoundaries(t *testing.T) {
	cases := []struct {
		day  Day
		n    int
		want Day
	}{
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-01-15", 0, "2024-01-15"},
		{"2024-01-05", 3, "2024-01-08"},
	}

	for _, tc := range cases {
		got := tc.day.AddDays(tc.n)
		if got != tc.want {
			t.Errorf("%s + %d days: got %s, want %s", tc.day, tc.n, got, tc.want)
		}
	}
}

func TestDayWeekendDetection(t *testing.T) {
	cases := []struct {
		day     Day
		weekend bool
	}{
		{"2024-01-06", true},  // Saturday
		{"2024-01-07", true},  // Sunday
		{"2024-01-08", false}, // Monday
		{"2024-01-12", false}, // Friday
	}

	for _, tc := range cases {
		if got := tc.day.IsWeekend(); got != tc.weekend {
			t.Errorf("%s (%s): IsWeekend = %v, want %v", tc.day, tc.day.Weekday(), got, tc.weekend)
		}
	}
}

func TestParseDayRejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "2024-13-01", "01/02/2024", "2024-1-2", "not-a-day"} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q): expected error, got none", bad)
		}
	}

	d, err := ParseDay("2024-06-15")
	if err != nil {
		t.Fatalf("ParseDay valid input: unexpected error %v", err)
	}
	if d != "2024-06-15" {
		t.Errorf("ParseDay returned %s", d)
	}
}

func TestClockMinutesUTCDiscardsSeconds(t *testing.T) {
	ts, err := ParseTime("2024-01-01T23:30:45Z")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if got := ClockMinutesUTC(ts); got != 1410 {
		t.Errorf("ClockMinutesUTC(23:30:45) = %v, want 1410", got)
	}
}

func TestISOMillisFormatting(t *testing.T) {
	start, err := ParseTime("2024-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	got := ISOMillis(start.Add(5 * time.Minute))
	if got != "2024-01-01T00:05:00.000Z" {
		t.Errorf("ISOMillis = %q", got)
	}
}
