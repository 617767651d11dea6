// Package ledger tracks which break notification events have already been
// emitted, per agent, break type, and local day.
//
// The probe here is an optimization only: the authoritative at-most-once
// guarantee is the unique constraint on
// notifications(agent_id, break_type, event_kind, day), which also protects
// against other writers (manual scripts, UI-triggered actions) that the
// in-process check cannot see.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftpulse/shiftpulse/internal/breaks"
	"github.com/shiftpulse/shiftpulse/internal/shift"
)

// Ledger answers "was this event already sent today".
type Ledger struct {
	pool *pgxpool.Pool
}

// New creates a database-backed ledger.
func New(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// WasSent reports whether a notification for (agent, break type, kind, day)
// already exists.
func (l *Ledger) WasSent(ctx context.Context, agentID int, breakType shift.BreakType, kind breaks.EventKind, day time.Time) (bool, error) {
	var one int
	err := l.pool.QueryRow(ctx, "notification_exists",
		agentID, string(breakType), string(kind), day).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dedup probe: %w", err)
	}
	return true, nil
}

// Day truncates t to its local calendar day in loc. All dedup keys use this
// normalization so a night window ending past midnight still counts against
// the day its shift started on.
func Day(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
