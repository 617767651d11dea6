package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sink persists notifications to Postgres.
type Sink struct {
	pool *pgxpool.Pool
}

// NewSink creates a database-backed notification sink.
func NewSink(pool *pgxpool.Pool) *Sink {
	return &Sink{pool: pool}
}

// Create inserts the notification. Returns the new row id and inserted=true,
// or inserted=false when the dedup constraint swallowed the insert (an
// equivalent notification already exists for that agent/break/kind/day).
func (s *Sink) Create(ctx context.Context, n Notification) (id int, inserted bool, err error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return 0, false, fmt.Errorf("marshal payload: %w", err)
	}

	err = s.pool.QueryRow(ctx, "insert_notification",
		n.AgentID, n.Category, n.Type, n.Title, n.Message, payload,
		string(n.BreakType), string(n.EventKind), n.Day,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returned no row: duplicate suppressed.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert notification: %w", err)
	}
	return id, true, nil
}
