// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/ranking"
)

// RankingsDependencies defines the interface for leaderboard reads.
type RankingsDependencies interface {
	Rankings(ctx context.Context, limit int) []ranking.Entry
	ExportRankingsCSV(ctx context.Context, w io.Writer) error
}

// RankingsHandler handles leaderboard requests.
type RankingsHandler struct {
	deps     RankingsDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRankings handles GET /rankings?limit=N requests.
// limit is optional; omitted means the full board.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.Rankings(r.Context(), limit))
}

// HandleExportCSV handles GET /rankings/export.csv requests.
func (h *RankingsHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="rankings.csv"`)
	if err := h.deps.ExportRankingsCSV(r.Context(), w); err != nil {
		// Headers are already out; the truncated body is all we can signal.
		writeDomainError(w, op, err)
	}
}
