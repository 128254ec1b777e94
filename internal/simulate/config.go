// Package simulate drives synthetic comparison decisions against a running
// server and verifies the rating invariants from the outside.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // base URL of the service
	Matches  int           // number of decisions to submit
	Timeout  time.Duration // HTTP request timeout
	SeedCSV  string        // when set, write a synthetic listing CSV here and exit
	Listings int           // number of synthetic listings for SeedCSV
	Verbose  bool          // enable verbose logging
}

// listing mirrors the /listings and /pair listing shape.
type listing struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// pairSide mirrors one side of the /pair response.
type pairSide struct {
	Listing listing `json:"listing"`
	Rating  float64 `json:"rating"`
}

// pairResponse mirrors the GET /pair payload.
type pairResponse struct {
	A pairSide `json:"a"`
	B pairSide `json:"b"`
}

// matchRequest mirrors the POST /matches body.
type matchRequest struct {
	DecisionID string `json:"decision_id"`
	WinnerID   string `json:"winner_id"`
	LoserID    string `json:"loser_id"`
}

// matchResponse mirrors the POST /matches acknowledgement.
type matchResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// rankingEntry mirrors one GET /rankings row.
type rankingEntry struct {
	Rank      int     `json:"rank"`
	ListingID string  `json:"listing_id"`
	Rating    float64 `json:"rating"`
}

// Stats holds simulation statistics.
type Stats struct {
	PairsFetched       int
	DecisionsSubmitted int
	DecisionsRecorded  int
	DecisionsDuplicate int
	DecisionsFailed    int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
