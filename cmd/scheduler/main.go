// Command scheduler is the ShiftPulse break notification scheduler CLI.
//
// Usage:
//
//	shiftpulse run
//	shiftpulse tick
//	shiftpulse windows --agent 42
//	shiftpulse migrate apply
//	shiftpulse migrate status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shiftpulse/shiftpulse/internal/alert"
	"github.com/shiftpulse/shiftpulse/internal/breaks"
	"github.com/shiftpulse/shiftpulse/internal/config"
	"github.com/shiftpulse/shiftpulse/internal/db"
	"github.com/shiftpulse/shiftpulse/internal/ledger"
	"github.com/shiftpulse/shiftpulse/internal/migrate"
	"github.com/shiftpulse/shiftpulse/internal/notify"
	"github.com/shiftpulse/shiftpulse/internal/scheduler"
	"github.com/shiftpulse/shiftpulse/internal/shift"
	"github.com/shiftpulse/shiftpulse/internal/tasknotify"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "shiftpulse",
		Short: "ShiftPulse break notification scheduler",
	}

	root.AddCommand(runCmd())
	root.AddCommand(tickCmd())
	root.AddCommand(windowsCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the break and task notification poll loops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				loc, err := cfg.Location()
				if err != nil {
					return err
				}

				// Singleton guard: exactly one scheduler per database.
				lock, err := scheduler.AcquireLock(ctx, pool.Pool)
				if err != nil {
					return fmt.Errorf("acquire scheduler lock: %w", err)
				}
				if lock == nil {
					return fmt.Errorf("another scheduler already holds the lock; refusing to start")
				}
				defer func() {
					if err := lock.Release(context.Background()); err != nil {
						logger.Warn("Release scheduler lock", "error", err)
					}
				}()

				alerts := alert.New(cfg.SlackToken, cfg.SlackChannel, logger)
				s := scheduler.New(
					scheduler.NewPGStore(pool.Pool),
					ledger.New(pool.Pool),
					notify.NewSink(pool.Pool),
					policyFromConfig(cfg),
					loc,
					alerts,
					logger,
				)

				// Lower-priority task reminders on their own cadence.
				go tasknotify.Start(ctx, pool.Pool, cfg.TaskPollInterval, loc, logger)

				s.Run(ctx, cfg.BreakPollInterval)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// tick command
// --------------------------------------------------------------------------

func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run a single poll cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				loc, err := cfg.Location()
				if err != nil {
					return err
				}

				s := scheduler.New(
					scheduler.NewPGStore(pool.Pool),
					ledger.New(pool.Pool),
					notify.NewSink(pool.Pool),
					policyFromConfig(cfg),
					loc,
					nil,
					logger,
				)

				result := s.Tick(ctx)
				logger.Info("Tick finished", "summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("tick error", "error", e)
					}
					return fmt.Errorf("tick finished with %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// windows command
// --------------------------------------------------------------------------

func windowsCmd() *cobra.Command {
	var agentID int
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Print the computed break windows for an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentID == 0 {
				return fmt.Errorf("--agent is required")
			}
			return withDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				loc, err := cfg.Location()
				if err != nil {
					return err
				}

				var id int
				var name, shiftTime, shiftClass string
				if err := pool.QueryRow(ctx, "agent_by_id", agentID).Scan(&id, &name, &shiftTime, &shiftClass); err != nil {
					return fmt.Errorf("load agent %d: %w", agentID, err)
				}

				s, err := shift.Parse(shiftTime)
				if err != nil {
					return fmt.Errorf("agent %d has malformed shift time %q: %w", agentID, shiftTime, err)
				}

				fmt.Printf("%s (agent %d): %s [%s]\n", name, id, shiftTime, s.Class())
				for _, w := range shift.Windows(s, time.Now(), loc) {
					fmt.Printf("  %-12s %s – %s\n", w.Type,
						w.Start.Format("Mon 15:04"), w.End.Format("Mon 15:04"))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&agentID, "agent", 0, "Agent ID")
	return cmd
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect SQL migrations",
	}
	cmd.AddCommand(migrateApplyCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateApplyCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if dir == "" {
					dir = cfg.MigrationsDir
				}
				applied, err := migrate.Apply(ctx, pool.Pool, dir, logger)
				if err != nil {
					return err
				}
				logger.Info("Migrations complete", "applied", len(applied))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (default from MIGRATIONS_DIR)")
	return cmd
}

func migrateStatusCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if dir == "" {
					dir = cfg.MigrationsDir
				}
				applied, pending, err := migrate.Status(ctx, pool.Pool, dir)
				if err != nil {
					return err
				}
				for _, name := range applied {
					fmt.Printf("applied  %s\n", name)
				}
				for _, name := range pending {
					fmt.Printf("pending  %s\n", name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (default from MIGRATIONS_DIR)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func policyFromConfig(cfg *config.Config) breaks.Policy {
	return breaks.Policy{
		AvailableSoonLead: cfg.AvailableSoonLead,
		ReminderInterval:  cfg.ReminderInterval,
		ReminderTolerance: cfg.ReminderTolerance,
		EndingSoonMin:     cfg.EndingSoonMin,
		EndingSoonMax:     cfg.EndingSoonMax,
	}
}

// withDB handles config loading, DB connection, and context cancellation.
func withDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
