package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftpulse/shiftpulse/internal/api/respond"
)

const defaultListLimit = 50

// notificationRow is the JSON shape served to the notification center.
type notificationRow struct {
	ID        int             `json:"id"`
	AgentID   int             `json:"agent_id"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListNotifications returns an agent's notifications, newest first.
// Soft-cleared rows are never served.
// @Summary List notifications
// @Description Returns an agent's notifications, newest first. Cleared notifications are excluded.
// @Tags notifications
// @Produce json
// @Param agent_id query int true "Agent ID"
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {array} handler.notificationRow
// @Failure 400 {object} respond.ErrorResponse
// @Router /notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.Atoi(r.URL.Query().Get("agent_id"))
	if err != nil || agentID <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_AGENT", "agent_id query parameter is required")
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := defaultListLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	rows, err := h.pool.Query(r.Context(), "list_notifications", agentID, unreadOnly, limit)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load notifications")
		return
	}
	defer rows.Close()

	list := make([]notificationRow, 0, limit)
	for rows.Next() {
		var n notificationRow
		if err := rows.Scan(&n.ID, &n.AgentID, &n.Category, &n.Type, &n.Title,
			&n.Message, &n.Payload, &n.IsRead, &n.CreatedAt); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "SCAN_FAILED", "Failed to read notifications")
			return
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load notifications")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, list)
}

// MarkRead marks a notification as read.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.mutateNotification(w, r, "mark_notification_read", "read")
}

// ClearNotification soft-deletes a notification. Rows are never physically
// deleted here; retention cleanup handles that much later.
// @Summary Clear notification
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /notifications/{id}/clear [post]
func (h *Handler) ClearNotification(w http.ResponseWriter, r *http.Request) {
	h.mutateNotification(w, r, "clear_notification", "cleared")
}

func (h *Handler) mutateNotification(w http.ResponseWriter, r *http.Request, stmt, action string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Notification id must be a positive integer")
		return
	}

	tag, err := h.pool.Exec(r.Context(), stmt, id)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "UPDATE_FAILED", fmt.Sprintf("Failed to mark notification %s", action))
		return
	}
	if tag.RowsAffected() == 0 {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": action,
	})
}

// StreamNotifications serves an agent's notifications over SSE. Events are
// published by the Postgres trigger and fanned out through the realtime hub.
// @Summary Stream notifications
// @Description Server-sent event stream of newly created notifications for an agent.
// @Tags notifications
// @Produce text/event-stream
// @Param agent_id query int true "Agent ID"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} respond.ErrorResponse
// @Router /notifications/stream [get]
func (h *Handler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.Atoi(r.URL.Query().Get("agent_id"))
	if err != nil || agentID <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_AGENT", "agent_id query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.WriteError(w, http.StatusInternalServerError, "NO_STREAMING", "Streaming unsupported by connection")
		return
	}

	events, cancel := h.hub.Subscribe(agentID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			// Comment line keeps intermediaries from closing the stream.
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case e := <-events:
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
