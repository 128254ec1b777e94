// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// ListingsDependencies defines the interface for candidate set reads.
type ListingsDependencies interface {
	Listings(ctx context.Context) []model.Listing
}

// ListingsHandler handles listing catalogue requests.
type ListingsHandler struct {
	deps ListingsDependencies
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(deps ListingsDependencies) *ListingsHandler {
	return &ListingsHandler{deps: deps}
}

// HandleGetListings handles GET /listings requests.
func (h *ListingsHandler) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Listings(r.Context()))
}
