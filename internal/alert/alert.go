// Package alert posts operational alerts to Slack.
// Nil-safe: when no token is configured, all methods are no-ops.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slack-go/slack"
)

// Only alert after this many consecutive tick failures, so a single
// transient database hiccup stays out of the ops channel.
const tickFailureThreshold = 5

// Notifier sends operational alerts to a Slack channel.
type Notifier struct {
	client  *slack.Client
	channel string
	logger  *slog.Logger
}

// New creates a Slack notifier. Returns nil if token is empty (alerts
// disabled); the nil receiver is safe to call.
func New(token, channel string, logger *slog.Logger) *Notifier {
	if token == "" {
		return nil
	}
	return &Notifier{
		client:  slack.New(token),
		channel: channel,
		logger:  logger,
	}
}

// TickFailure reports a failing scheduler tick. Posts only once the failure
// streak crosses the threshold, then on every tenth failure after that.
func (n *Notifier) TickFailure(ctx context.Context, instance string, streak int, firstError string) {
	if n == nil {
		return
	}
	if streak < tickFailureThreshold || (streak > tickFailureThreshold && streak%10 != 0) {
		return
	}
	n.post(ctx, fmt.Sprintf(
		":rotating_light: Break scheduler %s has failed %d consecutive ticks. Last error: %s",
		instance, streak, firstError))
}

// MissedDigest reports the daily missed-break count.
func (n *Notifier) MissedDigest(ctx context.Context, day time.Time, missed int) {
	if n == nil || missed == 0 {
		return
	}
	n.post(ctx, fmt.Sprintf(
		":coffee: %d break window(s) were missed on %s.",
		missed, day.Format("2006-01-02")))
}

func (n *Notifier) post(ctx context.Context, text string) {
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false))
	if err != nil {
		n.logger.Warn("Slack alert failed", "error", err)
	}
}
