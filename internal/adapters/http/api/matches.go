// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// MatchDependencies defines the interface for decision recording.
type MatchDependencies interface {
	RecordDecision(ctx context.Context, d model.Decision) (model.Match, bool, error)
}

// MatchesHandler handles comparison decision submissions.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandlePostMatch handles POST /matches requests.
func (h *MatchesHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	match, duplicate, err := h.deps.RecordDecision(r.Context(), model.Decision{
		DecisionID: req.DecisionID,
		WinnerID:   req.WinnerID,
		LoserID:    req.LoserID,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, matchResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, matchResponse{Status: "recorded", Duplicate: false, Match: &match})
}
