// Package tasknotify runs the lower-priority task reminder loop.
//
// Unlike the break scheduler's tight cadence, task reminders poll every few
// minutes. Each sweep is a single insert-select against task_assignments:
// the NOT EXISTS guard plus the task dedup index keep reminders at most
// once per task, kind, and day regardless of how often the sweep runs.
package tasknotify

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftpulse/shiftpulse/internal/ledger"
)

// Lead time before a task's due timestamp for the due-soon reminder.
const dueSoonLead = time.Hour

// Start polls at the given interval until ctx is cancelled. The dedup day
// and displayed due times use the agent-operating timezone, matching the
// break path; the database server's own timezone never leaks in.
// Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, interval time.Duration, loc *time.Location, logger *slog.Logger) {
	logger.Info("Task reminder loop started", "interval", interval, "timezone", loc.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			day := ledger.Day(time.Now(), loc)
			tz := loc.String()
			created := sweepDueSoon(ctx, pool, day, tz, logger) + sweepOverdue(ctx, pool, day, tz, logger)
			if created > 0 {
				logger.Info("Task reminders created", "count", created)
			}
		case <-ctx.Done():
			logger.Info("Task reminder loop stopped")
			return
		}
	}
}

// sweepDueSoon creates reminders for incomplete tasks due within the lead
// window.
func sweepDueSoon(ctx context.Context, pool *pgxpool.Pool, day time.Time, tz string, logger *slog.Logger) int64 {
	tag, err := pool.Exec(ctx, `
		INSERT INTO notifications (agent_id, category, type, title, message, payload, task_id, event_kind, day)
		SELECT
			t.agent_id,
			'task',
			'task_due_soon',
			'Task due soon',
			t.title || ' is due at ' || to_char(t.due_at AT TIME ZONE $3, 'HH12:MI AM'),
			jsonb_build_object('task_id', t.id, 'notification_type', 'task_due_soon', 'action_url', '/status/tasks'),
			t.id,
			'due_soon',
			$2::date
		FROM task_assignments t
		WHERE t.completed_at IS NULL
		  AND t.due_at > NOW()
		  AND t.due_at <= NOW() + make_interval(mins => $1)
		  AND NOT EXISTS (
			SELECT 1 FROM notifications n
			WHERE n.category = 'task'
			  AND n.task_id = t.id
			  AND n.event_kind = 'due_soon'
			  AND n.day = $2::date
		  )
		ON CONFLICT DO NOTHING`,
		int(dueSoonLead.Minutes()), day, tz)
	if err != nil {
		logger.Warn("Due-soon sweep failed", "error", err)
		return 0
	}
	return tag.RowsAffected()
}

// sweepOverdue creates reminders for incomplete tasks past their due time.
func sweepOverdue(ctx context.Context, pool *pgxpool.Pool, day time.Time, tz string, logger *slog.Logger) int64 {
	tag, err := pool.Exec(ctx, `
		INSERT INTO notifications (agent_id, category, type, title, message, payload, task_id, event_kind, day)
		SELECT
			t.agent_id,
			'task',
			'task_overdue',
			'Task overdue',
			t.title || ' was due at ' || to_char(t.due_at AT TIME ZONE $2, 'HH12:MI AM'),
			jsonb_build_object('task_id', t.id, 'notification_type', 'task_overdue', 'action_url', '/status/tasks'),
			t.id,
			'overdue',
			$1::date
		FROM task_assignments t
		WHERE t.completed_at IS NULL
		  AND t.due_at <= NOW()
		  AND NOT EXISTS (
			SELECT 1 FROM notifications n
			WHERE n.category = 'task'
			  AND n.task_id = t.id
			  AND n.event_kind = 'overdue'
			  AND n.day = $1::date
		  )
		ON CONFLICT DO NOTHING`,
		day, tz)
	if err != nil {
		logger.Warn("Overdue sweep failed", "error", err)
		return 0
	}
	return tag.RowsAffected()
}
