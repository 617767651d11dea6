// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftpulse/shiftpulse/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the scheduler and API
// layers use. Prepared statements eliminate parse overhead on every tick.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Agents
		"active_agents": "SELECT id, name, shift_time, shift_class FROM agents WHERE is_active = true ORDER BY id",
		"agent_by_id":   "SELECT id, name, shift_time, shift_class FROM agents WHERE id = $1",

		// Break sessions: which break types were taken inside a shift
		// occurrence span. Matching on the span, not the calendar date,
		// keeps post-midnight night-shift sessions visible.
		"sessions_taken": `SELECT DISTINCT break_type FROM break_sessions
			WHERE agent_id = $1 AND start_time >= $2 AND start_time < $3`,

		// Dedup ledger probe
		"notification_exists": `SELECT 1 FROM notifications
			WHERE agent_id = $1 AND break_type = $2 AND event_kind = $3 AND day = $4
			LIMIT 1`,

		// Notification sink: unique constraint on
		// (agent_id, break_type, event_kind, day) is the authoritative
		// dedup guarantee; conflict is an idempotent no-op.
		"insert_notification": `INSERT INTO notifications
			(agent_id, category, type, title, message, payload, break_type, event_kind, day)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (agent_id, break_type, event_kind, day) WHERE category = 'break'
			DO NOTHING
			RETURNING id`,

		// Notification center
		"list_notifications": `SELECT id, agent_id, category, type, title, message, payload, is_read, created_at
			FROM notifications
			WHERE agent_id = $1 AND clear = false AND ($2::bool = false OR is_read = false)
			ORDER BY created_at DESC
			LIMIT $3`,
		"mark_notification_read": "UPDATE notifications SET is_read = true WHERE id = $1 AND clear = false",
		"clear_notification":     "UPDATE notifications SET clear = true WHERE id = $1",

		// Scheduler singleton guard
		"try_advisory_lock": "SELECT pg_try_advisory_lock($1)",
		"advisory_unlock":   "SELECT pg_advisory_unlock($1)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
