// Package migrate applies SQL migration files in lexical order.
// One generic applier replaces per-migration runner scripts: each *.sql file
// in the migrations directory runs inside its own transaction and is
// recorded in schema_migrations, so re-running the command is a no-op for
// anything already applied.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ensureTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT NOW()
	)`

// Apply runs all pending migrations from dir. Returns the names applied, in
// order. Stops at the first failure; earlier migrations stay committed.
func Apply(ctx context.Context, pool *pgxpool.Pool, dir string, logger *slog.Logger) ([]string, error) {
	available, err := listMigrations(dir)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, ensureTable); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, name := range Pending(available, applied) {
		start := time.Now()
		if err := applyOne(ctx, pool, dir, name); err != nil {
			return done, fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("Migration applied", "name", name,
			"duration", time.Since(start).Round(time.Millisecond))
		done = append(done, name)
	}
	return done, nil
}

// Status returns the applied and pending migration names for dir.
func Status(ctx context.Context, pool *pgxpool.Pool, dir string) (applied, pending []string, err error) {
	available, err := listMigrations(dir)
	if err != nil {
		return nil, nil, err
	}

	if _, err := pool.Exec(ctx, ensureTable); err != nil {
		return nil, nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err = appliedMigrations(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	return applied, Pending(available, applied), nil
}

// Pending returns the available migrations not yet applied, sorted.
// Applied names no longer present on disk are ignored.
func Pending(available, applied []string) []string {
	seen := make(map[string]bool, len(applied))
	for _, name := range applied {
		seen[name] = true
	}

	var pending []string
	for _, name := range available {
		if !seen[name] {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, dir, name string) error {
	sql, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sql)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit(ctx)
}

func listMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx, "SELECT name FROM schema_migrations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan migration name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
