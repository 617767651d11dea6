// Package listener provides a Postgres LISTEN/NOTIFY consumer for real-time
// notification delivery. It holds a dedicated pgx connection (not from the
// pool) listening on the `notification_created` channel.
//
// Every insert into the notifications table fires pg_notify via trigger;
// this consumer receives the event and publishes it into the realtime hub,
// from which connected notification-center clients are served over SSE.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftpulse/shiftpulse/internal/realtime"
)

const (
	channel          = "notification_created"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Start opens a dedicated connection and listens on the notification_created
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, hub *realtime.Hub, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, hub, logger)
		if ctx.Err() != nil {
			logger.Info("Notification listener stopped (context cancelled)")
			return
		}

		logger.Error("Notification listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, hub *realtime.Hub, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Notification listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event realtime.Event
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse notification event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Debug("Notification event received",
			"notification_id", event.ID,
			"agent_id", event.AgentID,
			"category", event.Category,
			"type", event.Type)

		hub.Publish(event)
	}
}
