// Package notify persists break notifications and publishes them to the
// real-time channel.
//
// Create is the single write path shared by the scheduler, the task
// reminder loop, and manual tooling. The insert carries
// ON CONFLICT DO NOTHING against the dedup unique constraint, so a losing
// race is an idempotent no-op rather than a duplicate notification. A
// database trigger fires pg_notify('notification_created', ...) on every
// successful insert; the listener in cmd/api forwards those events to
// connected clients.
package notify

import (
	"fmt"
	"time"

	"github.com/shiftpulse/shiftpulse/internal/breaks"
	"github.com/shiftpulse/shiftpulse/internal/shift"
)

// CategoryBreak is the notification category for break reminders.
const CategoryBreak = "break"

// ActionURLBreaks is where a clicked break notification navigates.
// Every notification must carry an action_url or the notification center
// renders it non-clickable.
const ActionURLBreaks = "/status/breaks"

// Notification is a pending notification row.
type Notification struct {
	AgentID   int
	Category  string
	Type      string
	Title     string
	Message   string
	Payload   map[string]any
	BreakType shift.BreakType
	EventKind breaks.EventKind
	Day       time.Time
}

// ForBreakEvent builds the notification for a break event. day is the local
// calendar day of the shift occurrence, the dedup key's last component.
func ForBreakEvent(agentID int, w shift.Window, kind breaks.EventKind, day time.Time) Notification {
	title, message := breakCopy(w, kind)
	return Notification{
		AgentID:  agentID,
		Category: CategoryBreak,
		Type:     fmt.Sprintf("break_%s", kind),
		Title:    title,
		Message:  message,
		Payload: map[string]any{
			"break_type":        string(w.Type),
			"notification_type": string(kind),
			"action_url":        ActionURLBreaks,
		},
		BreakType: w.Type,
		EventKind: kind,
		Day:       day,
	}
}

// breakCopy returns the user-facing title and message for an event.
func breakCopy(w shift.Window, kind breaks.EventKind) (title, message string) {
	label := breakLabel(w.Type)
	start := w.Start.Format("3:04 PM")
	end := w.End.Format("3:04 PM")

	switch kind {
	case breaks.AvailableSoon:
		return fmt.Sprintf("%s break soon", label),
			fmt.Sprintf("Your %s break opens at %s.", label, start)
	case breaks.AvailableNow:
		return fmt.Sprintf("%s break available", label),
			fmt.Sprintf("Your %s break is open until %s.", label, end)
	case breaks.ReminderDue:
		return fmt.Sprintf("%s break reminder", label),
			fmt.Sprintf("Your %s break is still open until %s.", label, end)
	case breaks.EndingSoon:
		return fmt.Sprintf("%s break ending soon", label),
			fmt.Sprintf("Your %s break window closes at %s.", label, end)
	case breaks.Missed:
		return fmt.Sprintf("%s break missed", label),
			fmt.Sprintf("Your %s break window (%s–%s) has passed.", label, start, end)
	default:
		return string(kind), fmt.Sprintf("%s: %s", label, kind)
	}
}

func breakLabel(t shift.BreakType) string {
	switch t {
	case shift.Morning:
		return "Morning"
	case shift.Lunch:
		return "Lunch"
	case shift.Afternoon:
		return "Afternoon"
	case shift.NightFirst:
		return "First night"
	case shift.NightMeal:
		return "Night meal"
	case shift.NightSecond:
		return "Second night"
	default:
		return string(t)
	}
}
