// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// PairDependencies defines the interface for pair selection.
type PairDependencies interface {
	NextPair(ctx context.Context) (model.Listing, model.Listing, float64, float64, error)
}

// PairHandler serves the next pair to compare.
type PairHandler struct {
	deps PairDependencies
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(deps PairDependencies) *PairHandler {
	return &PairHandler{deps: deps}
}

// HandleGetPair handles GET /pair requests. With fewer than two candidates
// the UI gets a 409 it can render as "not enough listings" instead of a crash.
func (h *PairHandler) HandleGetPair(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pair"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	a, b, ra, rb, err := h.deps.NextPair(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pairResponse{
		A: pairSide{Listing: a, Rating: ra},
		B: pairSide{Listing: b, Rating: rb},
	})
}
