package shift

import (
	"testing"
	"time"
)

var manila = time.FixedZone("PHT", 8*3600)

func TestParse(t *testing.T) {
	cases := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"6:00 AM - 3:00 PM", 6 * 60, 15 * 60, false},
		{"10:00 PM - 7:00 AM", 22 * 60, 7 * 60, false},
		{"12:00 AM - 8:30 AM", 0, 8*60 + 30, false},
		{"12:15 PM - 9:00 PM", 12*60 + 15, 21 * 60, false},
		{"6:00am-3:00pm", 6 * 60, 15 * 60, false},
		{"  7:30 AM  -  4:30 PM ", 7*60 + 30, 16*60 + 30, false},
		{"", 0, 0, true},
		{"9 to 5", 0, 0, true},
		{"25:00 AM - 3:00 PM", 0, 0, true},
		{"6:99 AM - 3:00 PM", 0, 0, true},
		{"6:00 AM - 6:00 AM", 0, 0, true},
		{"6:00 - 15:00", 0, 0, true},
	}

	for _, c := range cases {
		s, err := Parse(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %+v", c.in, s)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if s.Start != c.start || s.End != c.end {
			t.Errorf("Parse(%q) = {%d %d}, want {%d %d}", c.in, s.Start, s.End, c.start, c.end)
		}
	}
}

func TestClassification(t *testing.T) {
	day, err := Parse("6:00 AM - 3:00 PM")
	if err != nil {
		t.Fatalf("parse day shift: %v", err)
	}
	if day.Class() != DayShift {
		t.Fatalf("expected day classification, got %s", day.Class())
	}
	if day.Length() != 540 {
		t.Fatalf("expected 540 minute shift, got %d", day.Length())
	}

	night, err := Parse("10:00 PM - 7:00 AM")
	if err != nil {
		t.Fatalf("parse night shift: %v", err)
	}
	if night.Class() != NightShift {
		t.Fatalf("expected night classification, got %s", night.Class())
	}
	if night.Length() != 540 {
		t.Fatalf("expected 540 minute night shift, got %d", night.Length())
	}
}

func TestWindowsOrderedNonOverlapping(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, manila)

	for _, in := range []string{
		"6:00 AM - 3:00 PM",
		"8:00 AM - 4:00 PM",
		"9:00 AM - 2:30 PM",
		"10:00 PM - 7:00 AM",
		"11:00 AM - 2:00 PM",
	} {
		s, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		windows := Windows(s, now, manila)
		if len(windows) == 0 {
			t.Fatalf("Windows(%q): no windows", in)
		}
		for i, w := range windows {
			if !w.Start.Before(w.End) {
				t.Errorf("%s %s: start %v not before end %v", in, w.Type, w.Start, w.End)
			}
			if i > 0 && windows[i-1].End.After(w.Start) {
				t.Errorf("%s: window %s overlaps %s", in, windows[i-1].Type, w.Type)
			}
		}
	}
}

func TestWindowsDayShift(t *testing.T) {
	s, err := Parse("6:00 AM - 3:00 PM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	now := time.Date(2025, 6, 2, 7, 45, 0, 0, manila)
	windows := Windows(s, now, manila)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}

	want := []struct {
		typ        BreakType
		start, end string
	}{
		{Morning, "08:00", "09:00"},
		{Lunch, "10:30", "13:00"},
		{Afternoon, "13:00", "14:00"},
	}
	for i, w := range want {
		got := windows[i]
		if got.Type != w.typ {
			t.Errorf("window %d: type %s, want %s", i, got.Type, w.typ)
		}
		if got.Start.Format("15:04") != w.start || got.End.Format("15:04") != w.end {
			t.Errorf("%s: got %s–%s, want %s–%s", w.typ,
				got.Start.Format("15:04"), got.End.Format("15:04"), w.start, w.end)
		}
		if got.Start.Day() != 2 {
			t.Errorf("%s: expected same-day window, got day %d", w.typ, got.Start.Day())
		}
	}
}

func TestWindowsNightRollover(t *testing.T) {
	s, err := Parse("10:00 PM - 7:00 AM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// 11:30 PM on June 2: shift started 10 PM the same evening.
	now := time.Date(2025, 6, 2, 23, 30, 0, 0, manila)
	windows := Windows(s, now, manila)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}

	first := windows[0]
	if first.Type != NightFirst {
		t.Fatalf("expected NightFirst, got %s", first.Type)
	}
	// First break starts 2h in: midnight June 3, ending 1:00 AM June 3.
	if first.Start.Day() != 3 || first.Start.Hour() != 0 {
		t.Fatalf("NightFirst start = %v, want midnight next day", first.Start)
	}
	if first.End.Day() != 3 || first.End.Hour() != 1 {
		t.Fatalf("NightFirst end = %v, want 1 AM next day", first.End)
	}

	// After midnight, the same occurrence must be resolved (anchor is
	// yesterday), not a fresh shift starting tonight.
	after := time.Date(2025, 6, 3, 0, 30, 0, 0, manila)
	again := Windows(s, after, manila)
	if !again[0].Start.Equal(first.Start) {
		t.Fatalf("anchor drifted across midnight: %v vs %v", again[0].Start, first.Start)
	}
}

func TestShortShiftSingleBreak(t *testing.T) {
	s, err := Parse("11:00 AM - 2:00 PM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	now := time.Date(2025, 6, 2, 11, 0, 0, 0, manila)
	windows := Windows(s, now, manila)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window for a 3h shift, got %d", len(windows))
	}
	if windows[0].Type != Lunch {
		t.Fatalf("expected Lunch, got %s", windows[0].Type)
	}
}
