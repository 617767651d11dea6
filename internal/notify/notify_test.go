package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/shiftpulse/shiftpulse/internal/breaks"
	"github.com/shiftpulse/shiftpulse/internal/shift"
)

func testWindow(t *testing.T) shift.Window {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return shift.Window{
		Type:  shift.Lunch,
		Start: time.Date(2026, 3, 9, 10, 30, 0, 0, loc),
		End:   time.Date(2026, 3, 9, 13, 0, 0, 0, loc),
	}
}

func TestForBreakEventPayload(t *testing.T) {
	w := testWindow(t)
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	n := ForBreakEvent(42, w, breaks.AvailableNow, day)

	if n.AgentID != 42 || n.Category != CategoryBreak {
		t.Errorf("identity fields wrong: %+v", n)
	}
	if n.Type != "break_available_now" {
		t.Errorf("Type = %q, want break_available_now", n.Type)
	}
	if n.BreakType != shift.Lunch || n.EventKind != breaks.AvailableNow || !n.Day.Equal(day) {
		t.Errorf("dedup key fields wrong: %+v", n)
	}
	if got := n.Payload["action_url"]; got != ActionURLBreaks {
		t.Errorf("payload action_url = %v, want %s", got, ActionURLBreaks)
	}
	if got := n.Payload["break_type"]; got != string(shift.Lunch) {
		t.Errorf("payload break_type = %v, want %s", got, shift.Lunch)
	}
	if got := n.Payload["notification_type"]; got != "available_now" {
		t.Errorf("payload notification_type = %v, want available_now", got)
	}
}

func TestForBreakEventCopy(t *testing.T) {
	w := testWindow(t)
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		kind          breaks.EventKind
		wantTitleSub  string
		wantBodyTimes string
	}{
		{breaks.AvailableSoon, "soon", "10:30 AM"},
		{breaks.AvailableNow, "available", "1:00 PM"},
		{breaks.ReminderDue, "reminder", "1:00 PM"},
		{breaks.EndingSoon, "ending soon", "1:00 PM"},
		{breaks.Missed, "missed", "10:30 AM"},
	}
	for _, tt := range tests {
		n := ForBreakEvent(1, w, tt.kind, day)
		if !strings.Contains(strings.ToLower(n.Title), tt.wantTitleSub) {
			t.Errorf("%s: title %q missing %q", tt.kind, n.Title, tt.wantTitleSub)
		}
		if !strings.Contains(n.Message, tt.wantBodyTimes) {
			t.Errorf("%s: message %q missing %q", tt.kind, n.Message, tt.wantBodyTimes)
		}
		if !strings.Contains(n.Title, "Lunch") {
			t.Errorf("%s: title %q missing break label", tt.kind, n.Title)
		}
	}
}
