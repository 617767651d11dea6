package shift

import "time"

// BreakType identifies a break slot within a shift.
type BreakType string

const (
	Morning   BreakType = "Morning"
	Lunch     BreakType = "Lunch"
	Afternoon BreakType = "Afternoon"

	// Night-shift equivalents
	NightFirst  BreakType = "NightFirst"
	NightMeal   BreakType = "NightMeal"
	NightSecond BreakType = "NightSecond"
)

// Window is a concrete break window anchored to calendar time.
// Windows are half-open: [Start, End).
type Window struct {
	Type  BreakType
	Start time.Time
	End   time.Time
}

// offsetWindow is a window in minutes-since-shift-start form. Offsets keep
// midnight rollover out of the policy table; anchoring to a shift start
// instant makes windows that cross midnight land on the next calendar day
// with no special casing.
type offsetWindow struct {
	slot  int // 0 = first, 1 = meal, 2 = last
	start int
	end   int
}

// breakOffsets is the break placement policy, keyed by shift length.
// First break roughly two hours in, meal break mid-shift with a wider
// window, last break one to two hours before shift end.
func breakOffsets(length int) []offsetWindow {
	switch {
	case length >= 540: // 9h and longer
		return []offsetWindow{
			{0, 120, 180},
			{1, length / 2, length/2 + 150},
			{2, length - 120, length - 60},
		}
	case length >= 420: // 7–9h: tighter meal window
		return []offsetWindow{
			{0, 120, 180},
			{1, length / 2, length/2 + 90},
			{2, length - 90, length - 30},
		}
	case length >= 300: // 5–7h: meal break only
		return []offsetWindow{
			{1, length/2 - 30, length/2 + 60},
		}
	default: // short shifts: single mid-shift break
		return []offsetWindow{
			{1, length/2 - 15, length/2 + 15},
		}
	}
}

var daySlots = [3]BreakType{Morning, Lunch, Afternoon}
var nightSlots = [3]BreakType{NightFirst, NightMeal, NightSecond}

// Windows derives the break windows for the shift occurrence containing now,
// anchored in loc. Returned windows are deterministic, non-overlapping, and
// ordered by start time.
func Windows(s Shift, now time.Time, loc *time.Location) []Window {
	anchor := s.StartOn(now, loc)

	slots := daySlots
	if s.Class() == NightShift {
		slots = nightSlots
	}

	offsets := breakOffsets(s.Length())
	windows := make([]Window, 0, len(offsets))
	for _, o := range offsets {
		windows = append(windows, Window{
			Type:  slots[o.slot],
			Start: anchor.Add(time.Duration(o.start) * time.Minute),
			End:   anchor.Add(time.Duration(o.end) * time.Minute),
		})
	}
	return windows
}
