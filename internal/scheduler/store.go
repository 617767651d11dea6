package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftpulse/shiftpulse/internal/shift"
)

// schedulerLockKey is the advisory lock key guarding the singleton
// invariant: one break scheduler per database.
const schedulerLockKey int64 = 0x53485054 // "SHPT"

// PGStore reads agents and break sessions from Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates the database-backed agent store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ActiveAgents returns all agents eligible for break notifications.
func (s *PGStore) ActiveAgents(ctx context.Context) ([]Agent, error) {
	rows, err := s.pool.Query(ctx, "active_agents")
	if err != nil {
		return nil, fmt.Errorf("active agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.ShiftTime, &a.ShiftClass); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// TakenBreaks reports the break types with a recorded session inside the
// shift occurrence span [from, until).
func (s *PGStore) TakenBreaks(ctx context.Context, agentID int, from, until time.Time) (map[shift.BreakType]bool, error) {
	rows, err := s.pool.Query(ctx, "sessions_taken", agentID, from, until)
	if err != nil {
		return nil, fmt.Errorf("sessions taken: %w", err)
	}
	defer rows.Close()

	taken := make(map[shift.BreakType]bool)
	for rows.Next() {
		var bt string
		if err := rows.Scan(&bt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		taken[shift.BreakType(bt)] = true
	}
	return taken, rows.Err()
}

// Lock is a held scheduler advisory lock. Advisory locks are session
// scoped, so the lock pins a dedicated pool connection for its lifetime.
type Lock struct {
	conn *pgxpool.Conn
}

// AcquireLock tries to take the scheduler advisory lock. Returns nil (no
// error) when another scheduler process already holds it.
func AcquireLock(ctx context.Context, pool *pgxpool.Pool) (*Lock, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, "try_advisory_lock", schedulerLockKey).Scan(&ok); err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, nil
	}
	return &Lock{conn: conn}, nil
}

// Release unlocks and returns the pinned connection to the pool.
func (l *Lock) Release(ctx context.Context) error {
	defer l.conn.Release()
	var released bool
	if err := l.conn.QueryRow(ctx, "advisory_unlock", schedulerLockKey).Scan(&released); err != nil {
		return fmt.Errorf("advisory unlock: %w", err)
	}
	if !released {
		return fmt.Errorf("advisory lock was not held by this session")
	}
	return nil
}
