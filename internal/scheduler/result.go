package scheduler

import (
	"fmt"
	"time"
)

// TickResult tracks the outcome of a single poll cycle.
type TickResult struct {
	Skipped       bool // previous tick still executing
	AgentsSeen    int
	AgentsSkipped int // malformed shift configuration
	Evaluated     int // due predicate hits before dedup
	Sent          int
	Duplicates    int // suppressed by the unique constraint
	Errors        []string
	Duration      time.Duration
}

// Summary returns a human-readable summary.
func (r *TickResult) Summary() string {
	if r.Skipped {
		return "skipped (previous tick still running)"
	}
	return fmt.Sprintf("agents=%d skipped=%d due=%d sent=%d dups=%d errors=%d dur=%s",
		r.AgentsSeen, r.AgentsSkipped, r.Evaluated, r.Sent, r.Duplicates,
		len(r.Errors), r.Duration.Round(time.Millisecond))
}
