// Package breaks decides which break notification event, if any, is due for
// an agent at a given instant. All predicates are pure functions over plain
// data: a break window, a localized clock reading, and whether the break was
// already taken. Persistence and dedup live elsewhere; the database unique
// constraint is the authoritative at-most-once guarantee, these predicates
// only say "due right now".
package breaks

import (
	"time"

	"github.com/shiftpulse/shiftpulse/internal/shift"
)

// EventKind is a break notification event.
type EventKind string

const (
	AvailableSoon EventKind = "available_soon"
	AvailableNow  EventKind = "available_now"
	ReminderDue   EventKind = "reminder_due"
	EndingSoon    EventKind = "ending_soon"
	Missed        EventKind = "missed"
)

// Kinds lists all event kinds in firing order.
var Kinds = []EventKind{AvailableSoon, AvailableNow, ReminderDue, EndingSoon, Missed}

// Policy holds the timing bands for the five predicates.
//
// A fixed-interval poller cannot land exactly on a boundary minute, so the
// reminder and ending-soon predicates hold over a band of minutes wide
// enough that at least one tick observes them. The band deliberately allows
// multiple ticks to observe the same event; duplicates are suppressed by the
// notifications unique constraint, not by narrowing the band.
type Policy struct {
	AvailableSoonLead time.Duration // lead before window start
	ReminderInterval  time.Duration // recurrence inside the window
	ReminderTolerance time.Duration // half-width of the reminder band
	EndingSoonMin     time.Duration // remaining-time band lower edge
	EndingSoonMax     time.Duration // remaining-time band upper edge
}

// DefaultPolicy mirrors the production timing configuration.
func DefaultPolicy() Policy {
	return Policy{
		AvailableSoonLead: 15 * time.Minute,
		ReminderInterval:  30 * time.Minute,
		ReminderTolerance: 3 * time.Minute,
		EndingSoonMin:     12 * time.Minute,
		EndingSoonMax:     18 * time.Minute,
	}
}

// IsAvailableSoon reports whether now falls in the lead band before the
// window opens.
func (p Policy) IsAvailableSoon(w shift.Window, now time.Time) bool {
	return !now.Before(w.Start.Add(-p.AvailableSoonLead)) && now.Before(w.Start)
}

// IsAvailableNow reports whether now is inside the window. The predicate
// holds for the entire window; firing once is the dedup ledger's job.
func (p Policy) IsAvailableNow(w shift.Window, now time.Time) bool {
	return !now.Before(w.Start) && now.Before(w.End)
}

// ReminderSlot returns the ordinal of the reminder nearest to now, counting
// from the window start in ReminderInterval steps. Zero before the first
// slot. The slot is part of the reminder dedup key: the series recurs, but
// each occurrence fires at most once.
func (p Policy) ReminderSlot(w shift.Window, now time.Time) int {
	k := (now.Sub(w.Start) + p.ReminderInterval/2) / p.ReminderInterval
	if k < 1 {
		return 0
	}
	return int(k)
}

// IsReminderDue reports whether the elapsed time since window start is a
// multiple of the reminder interval, within tolerance, and the break has not
// been taken. Never true at the window start itself or outside the window.
func (p Policy) IsReminderDue(w shift.Window, now time.Time, taken bool) bool {
	if taken || now.Before(w.Start) || !now.Before(w.End) {
		return false
	}
	k := p.ReminderSlot(w, now)
	if k < 1 {
		return false
	}
	drift := now.Sub(w.Start) - time.Duration(k)*p.ReminderInterval
	if drift < 0 {
		drift = -drift
	}
	return drift <= p.ReminderTolerance
}

// IsEndingSoon reports whether the time remaining until window end falls in
// the configured band.
func (p Policy) IsEndingSoon(w shift.Window, now time.Time) bool {
	remaining := w.End.Sub(now)
	return remaining >= p.EndingSoonMin && remaining <= p.EndingSoonMax
}

// IsMissed reports whether the window has closed without the break being
// taken that day.
func (p Policy) IsMissed(w shift.Window, now time.Time, taken bool) bool {
	return !taken && !now.Before(w.End)
}

// Due evaluates all five predicates for a window and returns the kinds that
// hold at now. now must already be localized to the agent's operating
// timezone: the window carries local wall-clock instants and a UTC reading
// drifts the comparison by the zone offset.
func (p Policy) Due(w shift.Window, now time.Time, taken bool) []EventKind {
	var due []EventKind
	if p.IsAvailableSoon(w, now) {
		due = append(due, AvailableSoon)
	}
	if p.IsAvailableNow(w, now) {
		due = append(due, AvailableNow)
	}
	if p.IsReminderDue(w, now, taken) {
		due = append(due, ReminderDue)
	}
	if p.IsEndingSoon(w, now) {
		due = append(due, EndingSoon)
	}
	if p.IsMissed(w, now, taken) {
		due = append(due, Missed)
	}
	return due
}
