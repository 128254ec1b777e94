// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// defaultHistoryLimit bounds GET /history when no limit is given.
const defaultHistoryLimit = 50

// HistoryDependencies defines the interface for match log reads.
type HistoryDependencies interface {
	History(ctx context.Context, limit int) []model.Match
}

// HistoryHandler handles match history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /history?limit=N requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.History(r.Context(), limit))
}
