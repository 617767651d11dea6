// Package scheduler runs the break notification poll loop.
//
// Each tick loads the active agents, derives their break windows, evaluates
// the due predicates, and emits deduplicated notifications through the sink.
// Ticks are strictly serialized: a tick that is still executing causes the
// next one to be skipped, never overlapped. A Postgres advisory lock makes
// "one scheduler per database" a hard invariant instead of an operational
// convention.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftpulse/shiftpulse/internal/alert"
	"github.com/shiftpulse/shiftpulse/internal/breaks"
	"github.com/shiftpulse/shiftpulse/internal/ledger"
	"github.com/shiftpulse/shiftpulse/internal/notify"
	"github.com/shiftpulse/shiftpulse/internal/shift"
)

// State of the scheduler control object.
type State int

const (
	Idle State = iota
	Ticking
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ticking:
		return "ticking"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Agent is the scheduler's read-only view of an agent row.
type Agent struct {
	ID         int
	Name       string
	ShiftTime  string
	ShiftClass string
}

// AgentStore provides agent and break-session reads.
type AgentStore interface {
	ActiveAgents(ctx context.Context) ([]Agent, error)
	// TakenBreaks reports which break types have a recorded session inside
	// [from, until). The span is the shift occurrence, so night-shift
	// sessions taken after midnight are still found.
	TakenBreaks(ctx context.Context, agentID int, from, until time.Time) (map[shift.BreakType]bool, error)
}

// Dedup answers whether an event was already sent. The database unique
// constraint remains the backstop; this probe just avoids pointless inserts.
type Dedup interface {
	WasSent(ctx context.Context, agentID int, breakType shift.BreakType, kind breaks.EventKind, day time.Time) (bool, error)
}

// Sink persists and publishes a notification.
type Sink interface {
	Create(ctx context.Context, n notify.Notification) (id int, inserted bool, err error)
}

// Scheduler is the single-owner poll loop control object.
type Scheduler struct {
	store  AgentStore
	dedup  Dedup
	sink   Sink
	policy breaks.Policy
	loc    *time.Location
	logger *slog.Logger
	alerts *alert.Notifier

	// InstanceID identifies this scheduler process in logs and alerts.
	InstanceID uuid.UUID

	now func() time.Time // injectable clock

	mu    sync.Mutex
	state State
}

// New creates a scheduler.
func New(store AgentStore, dedup Dedup, sink Sink, policy breaks.Policy, loc *time.Location, alerts *alert.Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:      store,
		dedup:      dedup,
		sink:       sink,
		policy:     policy,
		loc:        loc,
		logger:     logger,
		alerts:     alerts,
		InstanceID: uuid.New(),
		now:        time.Now,
		state:      Idle,
	}
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run polls at the given interval until ctx is cancelled. An in-flight tick
// completes before Run returns. Tick failures are logged and never stop the
// loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("Break scheduler started",
		"instance", s.InstanceID, "interval", interval, "timezone", s.loc.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failureStreak := 0
	for {
		select {
		case <-ticker.C:
			result := s.Tick(ctx)
			if result.Skipped {
				continue
			}
			if len(result.Errors) > 0 {
				failureStreak++
				s.logger.Error("Tick finished with errors",
					"at", s.now().In(s.loc).Format(time.RFC3339),
					"errors", len(result.Errors), "first", result.Errors[0])
				s.alerts.TickFailure(ctx, s.InstanceID.String(), failureStreak, result.Errors[0])
			} else {
				failureStreak = 0
			}
			// Log a summary only when something was sent.
			if result.Sent > 0 {
				s.logger.Info("Notifications sent", "summary", result.Summary())
			}
		case <-ctx.Done():
			s.mu.Lock()
			s.state = Stopped
			s.mu.Unlock()
			s.logger.Info("Break scheduler stopped", "instance", s.InstanceID)
			return
		}
	}
}

// Tick runs one poll cycle. Safe to call directly (the `tick` CLI command
// does); returns Skipped=true when another tick is executing.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return TickResult{Skipped: true}
	}
	s.state = Ticking
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.state == Ticking {
			s.state = Idle
		}
		s.mu.Unlock()
	}()

	start := time.Now()
	var result TickResult

	now := s.now().In(s.loc)
	agents, err := s.store.ActiveAgents(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load agents: %v", err))
		result.Duration = time.Since(start)
		return result
	}
	result.AgentsSeen = len(agents)

	for _, agent := range agents {
		if err := s.tickAgent(ctx, agent, now, &result); err != nil {
			// Isolate per-agent failures: the rest of the tick proceeds.
			result.Errors = append(result.Errors, fmt.Sprintf("agent %d: %v", agent.ID, err))
		}
	}

	result.Duration = time.Since(start)
	return result
}

// tickAgent evaluates one agent's break windows and emits due notifications.
func (s *Scheduler) tickAgent(ctx context.Context, agent Agent, now time.Time, result *TickResult) error {
	sh, err := shift.Parse(agent.ShiftTime)
	if err != nil {
		// Malformed shift configuration excludes the agent from checks;
		// it is not a tick failure.
		result.AgentsSkipped++
		s.logger.Debug("Agent skipped", "agent_id", agent.ID, "error", err)
		return nil
	}

	// Dedup day is the shift occurrence's start day, so night windows that
	// roll past midnight still count against the shift's day. Sessions are
	// matched against the occurrence span for the same reason: a break
	// taken at 00:15 belongs to the shift that started the evening before.
	anchor := sh.StartOn(now, s.loc)
	day := ledger.Day(anchor, s.loc)
	shiftEnd := anchor.Add(time.Duration(sh.Length()) * time.Minute)

	taken, err := s.store.TakenBreaks(ctx, agent.ID, anchor, shiftEnd)
	if err != nil {
		return fmt.Errorf("taken breaks: %w", err)
	}

	for _, w := range shift.Windows(sh, now, s.loc) {
		for _, kind := range s.policy.Due(w, now, taken[w.Type]) {
			result.Evaluated++
			if err := s.emit(ctx, agent, w, kind, now, day, result); err != nil {
				return fmt.Errorf("%s %s: %w", w.Type, kind, err)
			}
		}
	}
	return nil
}

// emit sends one notification unless the ledger already recorded it.
func (s *Scheduler) emit(ctx context.Context, agent Agent, w shift.Window, kind breaks.EventKind, now, day time.Time, result *TickResult) error {
	// Reminders recur: each interval slot gets its own dedup key, so the
	// 11:30 reminder is not swallowed by the 11:00 one. Every other kind
	// fires at most once per window and day.
	dedupKind := kind
	if kind == breaks.ReminderDue {
		dedupKind = breaks.EventKind(fmt.Sprintf("%s_%d", kind, s.policy.ReminderSlot(w, now)))
	}

	sent, err := s.dedup.WasSent(ctx, agent.ID, w.Type, dedupKind, day)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}

	n := notify.ForBreakEvent(agent.ID, w, kind, day)
	n.EventKind = dedupKind
	id, inserted, err := s.sink.Create(ctx, n)
	if err != nil {
		return err
	}
	if !inserted {
		// Lost the race to a concurrent writer; unique constraint held.
		result.Duplicates++
		return nil
	}

	result.Sent++
	s.logger.Info("Notification created",
		"notification_id", id, "agent_id", agent.ID, "agent", agent.Name,
		"break_type", w.Type, "kind", kind)
	return nil
}
