package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/shiftpulse/shiftpulse/internal/api/respond"
	"github.com/shiftpulse/shiftpulse/internal/cache"
	"github.com/shiftpulse/shiftpulse/internal/shift"
)

type windowRow struct {
	BreakType string    `json:"break_type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type agentWindows struct {
	AgentID    int         `json:"agent_id"`
	Name       string      `json:"name"`
	ShiftTime  string      `json:"shift_time"`
	ShiftClass string      `json:"shift_class"`
	Windows    []windowRow `json:"windows"`
}

// GetAgentWindows returns the computed break windows for an agent's current
// shift occurrence. This is the debugging surface that used to require
// ad-hoc inspector scripts.
// @Summary Get agent break windows
// @Description Returns the break windows derived from the agent's shift-time string, anchored to the current shift occurrence.
// @Tags agents
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} handler.agentWindows
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /agents/{id}/windows [get]
func (h *Handler) GetAgentWindows(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || agentID <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Agent id must be a positive integer")
		return
	}

	cacheKey := fmt.Sprintf("windows:%d", agentID)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLWindows, true)
		return
	}

	var (
		out        agentWindows
		shiftClass string
	)
	err = h.pool.QueryRow(r.Context(), "agent_by_id", agentID).Scan(
		&out.AgentID, &out.Name, &out.ShiftTime, &shiftClass)
	if errors.Is(err, pgx.ErrNoRows) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Agent not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load agent")
		return
	}

	s, err := shift.Parse(out.ShiftTime)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "MALFORMED_SHIFT",
			"Agent shift time cannot be parsed; no break windows apply",
			fmt.Sprintf("shift_time %q", out.ShiftTime))
		return
	}
	out.ShiftClass = string(s.Class())

	for _, win := range shift.Windows(s, time.Now(), h.loc) {
		out.Windows = append(out.Windows, windowRow{
			BreakType: string(win.Type),
			StartTime: win.Start,
			EndTime:   win.End,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode windows")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLWindows)
	respond.WriteJSON(w, data, etag, cache.TTLWindows, false)
}
