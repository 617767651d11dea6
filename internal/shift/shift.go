// Package shift parses agent shift-time strings and derives break windows.
// A shift string is free-text 12-hour clock, e.g. "6:00 AM - 3:00 PM".
// Windows are pure clock arithmetic on plain data: the only inputs are the
// shift string and a reference instant.
package shift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Classification of a shift, derived from whether the span crosses midnight.
type Classification string

const (
	DayShift   Classification = "day"
	NightShift Classification = "night"
)

const minutesPerDay = 24 * 60

// Shift is a parsed shift-time string. Start and End are minutes since
// midnight in the agent's local timezone. A night shift's End clock-time is
// earlier than its Start (the span crosses midnight).
type Shift struct {
	Start int
	End   int
}

// Class returns the shift classification.
func (s Shift) Class() Classification {
	if s.End <= s.Start {
		return NightShift
	}
	return DayShift
}

// Length returns the shift length in minutes, rollover-aware.
func (s Shift) Length() int {
	if s.End <= s.Start {
		return s.End + minutesPerDay - s.Start
	}
	return s.End - s.Start
}

var shiftRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// Parse parses a shift-time string like "6:00 AM - 3:00 PM".
// A malformed string is an error; callers skip the agent rather than fail
// the whole poll cycle.
func Parse(s string) (Shift, error) {
	m := shiftRe.FindStringSubmatch(s)
	if m == nil {
		return Shift{}, fmt.Errorf("malformed shift time %q", s)
	}

	start, err := clockMinutes(m[1], m[2], m[3])
	if err != nil {
		return Shift{}, fmt.Errorf("shift start: %w", err)
	}
	end, err := clockMinutes(m[4], m[5], m[6])
	if err != nil {
		return Shift{}, fmt.Errorf("shift end: %w", err)
	}
	if start == end {
		return Shift{}, fmt.Errorf("zero-length shift %q", s)
	}
	return Shift{Start: start, End: end}, nil
}

// clockMinutes converts 12-hour clock components to minutes since midnight.
func clockMinutes(hourStr, minStr, meridiem string) (int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("invalid hour %q", hourStr)
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute > 59 {
		return 0, fmt.Errorf("invalid minute %q", minStr)
	}

	hour = hour % 12
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	}
	return hour*60 + minute, nil
}

// StartOn anchors the shift to its start instant for the occurrence that
// contains (or most recently precedes) now in loc. For a night shift whose
// local clock time is before the start clock time, the shift began the
// previous calendar day.
func (s Shift) StartOn(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	anchor := time.Date(local.Year(), local.Month(), local.Day(), s.Start/60, s.Start%60, 0, 0, loc)
	if s.Class() == NightShift {
		nowMin := local.Hour()*60 + local.Minute()
		if nowMin < s.Start {
			anchor = anchor.AddDate(0, 0, -1)
		}
	}
	return anchor
}
