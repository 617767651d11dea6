// Package maintenance runs periodic background tasks as Go tickers.
// All scheduled work is driven from Go since the scheduler is already a
// persistent, long-running process; no pg_cron dependency.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftpulse/shiftpulse/internal/alert"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // purge old cleared/read notifications
	DigestInterval  time.Duration // daily missed-break digest check
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 30 * time.Minute,
		DigestInterval:  1 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, cfg Config, loc *time.Location, alerts *alert.Notifier, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"digest", cfg.DigestInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { cleanup(ctx, pool, logger) })
	}

	if cfg.DigestInterval > 0 {
		t := time.NewTicker(cfg.DigestInterval)
		tickers = append(tickers, t)
		d := &digest{pool: pool, loc: loc, alerts: alerts, logger: logger}
		go runLoop(ctx, t.C, func() { d.run(ctx) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// cleanup purges soft-cleared notifications after 30 days and read break
// notifications after 90. Rows are never deleted before that: the
// notification center soft-clears, physical deletion is a retention policy.
func cleanup(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE clear = true
		  AND created_at < NOW() - INTERVAL '30 days'`)
	if err != nil {
		logger.Warn("Cleanup: failed to purge cleared notifications", "error", err)
	} else if tag.RowsAffected() > 0 {
		logger.Info("Cleanup: purged cleared notifications", "count", tag.RowsAffected())
	}

	tag, err = pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE is_read = true
		  AND created_at < NOW() - INTERVAL '90 days'`)
	if err != nil {
		logger.Warn("Cleanup: failed to purge read notifications", "error", err)
	} else if tag.RowsAffected() > 0 {
		logger.Info("Cleanup: purged read notifications", "count", tag.RowsAffected())
	}
}

// digest posts yesterday's missed-break count to the ops channel, once per
// local day. The day is claimed in ops_digest before posting, so a process
// restart after the digest went out cannot re-post it; lastDay is only an
// in-process shortcut past the hourly claim query.
type digest struct {
	pool    *pgxpool.Pool
	loc     *time.Location
	alerts  *alert.Notifier
	logger  *slog.Logger
	lastDay string
}

func (d *digest) run(ctx context.Context) {
	yesterday := time.Now().In(d.loc).AddDate(0, 0, -1)
	day := yesterday.Format("2006-01-02")
	if day == d.lastDay {
		return
	}

	tag, err := d.pool.Exec(ctx, `
		INSERT INTO ops_digest (day) VALUES ($1)
		ON CONFLICT (day) DO NOTHING`, day)
	if err != nil {
		d.logger.Warn("Digest: day claim failed", "error", err)
		return
	}
	d.lastDay = day
	if tag.RowsAffected() == 0 {
		// Already posted, by this process before a restart or by another.
		return
	}

	var missed int
	err = d.pool.QueryRow(ctx, `
		SELECT count(*) FROM notifications
		WHERE category = 'break' AND event_kind = 'missed' AND day = $1`,
		day).Scan(&missed)
	if err != nil {
		d.logger.Warn("Digest: missed-break count failed", "error", err)
		return
	}

	if missed > 0 {
		d.logger.Info("Missed-break digest", "day", day, "count", missed)
		d.alerts.MissedDigest(ctx, yesterday, missed)
	}
}
