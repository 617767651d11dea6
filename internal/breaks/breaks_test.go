package breaks

import (
	"testing"
	"time"

	"github.com/shiftpulse/shiftpulse/internal/shift"
)

var manila = time.FixedZone("PHT", 8*3600)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, manila)
}

func window(t *testing.T, shiftTime string, typ shift.BreakType) shift.Window {
	t.Helper()
	s, err := shift.Parse(shiftTime)
	if err != nil {
		t.Fatalf("parse %q: %v", shiftTime, err)
	}
	for _, w := range shift.Windows(s, at(12, 0), manila) {
		if w.Type == typ {
			return w
		}
	}
	t.Fatalf("no %s window for %q", typ, shiftTime)
	return shift.Window{}
}

// Shift 6:00 AM – 3:00 PM: Morning window is 8:00–9:00.
func TestAvailableSoonThenNow(t *testing.T) {
	p := DefaultPolicy()
	morning := window(t, "6:00 AM - 3:00 PM", shift.Morning)

	if !p.IsAvailableSoon(morning, at(7, 45)) {
		t.Error("expected available_soon at 07:45")
	}
	if p.IsAvailableSoon(morning, at(7, 44)) {
		t.Error("available_soon should not fire before the 15 minute lead")
	}
	if p.IsAvailableNow(morning, at(7, 45)) {
		t.Error("available_now should not fire before window start")
	}

	if p.IsAvailableSoon(morning, at(8, 0)) {
		t.Error("available_soon should stop at window start")
	}
	if !p.IsAvailableNow(morning, at(8, 0)) {
		t.Error("expected available_now at 08:00")
	}
	if !p.IsAvailableNow(morning, at(8, 59)) {
		t.Error("expected available_now just before window end")
	}
	if p.IsAvailableNow(morning, at(9, 0)) {
		t.Error("available_now should stop at window end")
	}
}

// Lunch window 10:30–13:00: reminders near 11:00, 11:30, 12:00, 12:30.
func TestReminderDue(t *testing.T) {
	p := DefaultPolicy()
	lunch := window(t, "6:00 AM - 3:00 PM", shift.Lunch)

	for _, tc := range []struct {
		hour, minute int
		want         bool
	}{
		{10, 30, false}, // window start is not a reminder
		{10, 31, false},
		{11, 0, true},
		{11, 2, true}, // inside tolerance
		{11, 15, false},
		{11, 30, true},
		{12, 0, true},
		{12, 30, true},
		{13, 0, false}, // window closed
		{13, 30, false},
	} {
		got := p.IsReminderDue(lunch, at(tc.hour, tc.minute), false)
		if got != tc.want {
			t.Errorf("reminder_due at %02d:%02d = %v, want %v", tc.hour, tc.minute, got, tc.want)
		}
	}

	if p.IsReminderDue(lunch, at(11, 0), true) {
		t.Error("reminder_due must not fire once the break was taken")
	}
}

func TestReminderSlot(t *testing.T) {
	p := DefaultPolicy()
	lunch := window(t, "6:00 AM - 3:00 PM", shift.Lunch)

	for _, tc := range []struct {
		hour, minute int
		want         int
	}{
		{10, 30, 0}, // window start
		{10, 31, 0},
		{11, 0, 1},
		{11, 2, 1},
		{11, 30, 2},
		{12, 0, 3},
		{12, 30, 4},
	} {
		if got := p.ReminderSlot(lunch, at(tc.hour, tc.minute)); got != tc.want {
			t.Errorf("ReminderSlot at %02d:%02d = %d, want %d", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestEndingSoonBand(t *testing.T) {
	p := DefaultPolicy()
	// Afternoon window for a 6:45 AM shift ends at 14:45.
	afternoon := window(t, "6:45 AM - 3:45 PM", shift.Afternoon)
	if afternoon.End.Format("15:04") != "14:45" {
		t.Fatalf("unexpected afternoon end %s", afternoon.End.Format("15:04"))
	}

	for _, tc := range []struct {
		hour, minute int
		want         bool
	}{
		{14, 15, false}, // 30 minutes out: too early
		{14, 27, true},  // 18 minutes out: band upper edge
		{14, 30, true},  // 15 minutes out
		{14, 33, true},  // 12 minutes out: band lower edge
		{14, 34, false}, // 11 minutes out: past the band
		{14, 45, false},
	} {
		got := p.IsEndingSoon(afternoon, at(tc.hour, tc.minute))
		if got != tc.want {
			t.Errorf("ending_soon at %02d:%02d = %v, want %v", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestMissed(t *testing.T) {
	p := DefaultPolicy()
	morning := window(t, "6:00 AM - 3:00 PM", shift.Morning)

	if p.IsMissed(morning, at(8, 59), false) {
		t.Error("missed should not fire while the window is open")
	}
	if !p.IsMissed(morning, at(9, 0), false) {
		t.Error("expected missed at window end with no session")
	}
	if p.IsMissed(morning, at(9, 0), true) {
		t.Error("missed must not fire when the break was taken")
	}
}

// Night window starting 23:00 rolls into the next calendar day.
func TestNightWindowAcrossMidnight(t *testing.T) {
	p := DefaultPolicy()
	s, err := shift.Parse("9:00 PM - 6:00 AM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	now := time.Date(2025, 6, 2, 23, 30, 0, 0, manila)
	windows := shift.Windows(s, now, manila)
	first := windows[0]
	if first.Type != shift.NightFirst {
		t.Fatalf("expected NightFirst, got %s", first.Type)
	}
	// 2h after a 9 PM start: 23:00–00:00.
	if first.Start.Hour() != 23 || first.End.Hour() != 0 || first.End.Day() != 3 {
		t.Fatalf("unexpected NightFirst window %v–%v", first.Start, first.End)
	}

	if !p.IsAvailableNow(first, now) {
		t.Error("expected available_now at 23:30 inside a 23:00–00:00 window")
	}
	if p.IsAvailableNow(first, time.Date(2025, 6, 3, 0, 0, 0, 0, manila)) {
		t.Error("available_now should stop at midnight rollover end")
	}
	if !p.IsMissed(first, time.Date(2025, 6, 3, 0, 5, 0, 0, manila), false) {
		t.Error("expected missed shortly after the rolled-over end")
	}
}

func TestDueCombines(t *testing.T) {
	p := DefaultPolicy()
	morning := window(t, "6:00 AM - 3:00 PM", shift.Morning)

	due := p.Due(morning, at(8, 45), false)
	// 15 minutes before a 9:00 end: ending_soon plus available_now.
	wantNow, wantEnding := false, false
	for _, k := range due {
		switch k {
		case AvailableNow:
			wantNow = true
		case EndingSoon:
			wantEnding = true
		default:
			t.Errorf("unexpected kind %s at 08:45", k)
		}
	}
	if !wantNow || !wantEnding {
		t.Fatalf("Due at 08:45 = %v, want available_now and ending_soon", due)
	}

	if got := p.Due(morning, at(6, 0), false); len(got) != 0 {
		t.Fatalf("Due at 06:00 = %v, want none", got)
	}
}
