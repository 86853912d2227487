package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeRange is used when a leave request creates a new row
const DefaultTimeRange = "09:00 - 17:00"

const timeRangeSeparator = " - "

// TimeOfDay is a wall-clock time in minutes since midnight
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" value
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayOf truncates t to the minute in its own location
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// TimeRange is an inclusive window within one day
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseTimeRange parses the stored "HH:MM - HH:MM" form
func ParseTimeRange(s string) (TimeRange, error) {
	start, end, ok := strings.Cut(s, timeRangeSeparator)
	if !ok {
		return TimeRange{}, fmt.Errorf("invalid time range %q, expected \"HH:MM - HH:MM\"", s)
	}
	from, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	to, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: from, End: to}, nil
}

func (r TimeRange) String() string {
	return r.Start.String() + timeRangeSeparator + r.End.String()
}

// Contains reports whether t lies within the window, both ends included.
// Windows do not wrap past midnight.
func (r TimeRange) Contains(t TimeOfDay) bool {
	return t >= r.Start && t <= r.End
}

// SplitTimeRange splits a stored time range into its start and end texts
// without validating them. A value without separator yields an empty end.
func SplitTimeRange(s string) (string, string) {
	start, end, _ := strings.Cut(s, timeRangeSeparator)
	return start, end
}
