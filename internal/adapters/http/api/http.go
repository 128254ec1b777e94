// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/agrawalsparsh/housing-ranker/internal/adapters/repository"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/pairing"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/ranking"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// NextPair returns the next two listings to compare plus their ratings.
	NextPair(ctx context.Context) (model.Listing, model.Listing, float64, float64, error)

	// RecordDecision applies one comparison decision; duplicate means the
	// decision id was already applied and nothing changed.
	RecordDecision(ctx context.Context, d model.Decision) (model.Match, bool, error)

	// Read operations over the rating state.
	Rankings(ctx context.Context, limit int) []ranking.Entry
	History(ctx context.Context, limit int) []model.Match
	Listings(ctx context.Context) []model.Listing
	ExportRankingsCSV(ctx context.Context, w io.Writer) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	pairHandler     *PairHandler
	matchesHandler  *MatchesHandler
	rankingsHandler *RankingsHandler
	historyHandler  *HistoryHandler
	listingsHandler *ListingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingsLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		pairHandler:     NewPairHandler(deps),
		matchesHandler:  NewMatchesHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxRankingsLimit),
		historyHandler:  NewHistoryHandler(deps),
		listingsHandler: NewListingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/pair", MetricsMiddleware(s.pairHandler.HandleGetPair, "pair"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatch, "matches"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/rankings/export.csv", MetricsMiddleware(s.rankingsHandler.HandleExportCSV, "rankings_export"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/listings", MetricsMiddleware(s.listingsHandler.HandleGetListings, "listings"))
}

// matchRequest mirrors the POST /matches body.
type matchRequest struct {
	DecisionID string `json:"decision_id"`
	WinnerID   string `json:"winner_id"`
	LoserID    string `json:"loser_id"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.DecisionID) == "":
		return errors.New("missing decision_id")
	case strings.TrimSpace(m.WinnerID) == "":
		return errors.New("missing winner_id")
	case strings.TrimSpace(m.LoserID) == "":
		return errors.New("missing loser_id")
	case m.WinnerID == m.LoserID:
		return errors.New("winner_id and loser_id must differ")
	}
	return nil
}

// matchResponse acknowledges a recorded (or replayed) decision.
type matchResponse struct {
	Status    string       `json:"status"`
	Duplicate bool         `json:"duplicate"`
	Match     *model.Match `json:"match,omitempty"`
}

// pairSide is one listing of a served pair with its current rating.
type pairSide struct {
	Listing model.Listing `json:"listing"`
	Rating  float64       `json:"rating"`
}

// pairResponse is the GET /pair payload.
type pairResponse struct {
	A pairSide `json:"a"`
	B pairSide `json:"b"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain sentinels into HTTP statuses. Anything
// unrecognized is a 500; a failed save explicitly tells the caller the
// decision was not recorded so it can retry.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, pairing.ErrNotEnoughListings):
		writeError(w, http.StatusConflict, "not_enough_listings", WrapKind(op, ErrConflict, err))
	case errors.Is(err, repository.ErrListingNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrSaveFailed):
		writeError(w, http.StatusInternalServerError, "not_recorded",
			Wrap(op, errors.New("decision was not durably recorded; retry with the same decision_id")))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
