// Package model contains domain models passed between layers.
package model

import "time"

// Listing is one candidate item under comparison. The rating core only ever
// looks at ID; Attributes is an opaque display-only bag carrying whatever
// columns the source sheet happens to have.
type Listing struct {
	ID         string            `json:"id"`
	Link       string            `json:"link"`
	Attributes map[string]string `json:"attributes"`
}

// Match is one recorded comparison outcome. Immutable once appended to the
// history log; before/after ratings make the log auditable and replayable.
type Match struct {
	ID           string    `json:"id"`
	WinnerID     string    `json:"winner_id"`
	LoserID      string    `json:"loser_id"`
	Timestamp    time.Time `json:"ts"`
	WinnerBefore float64   `json:"winner_before"`
	LoserBefore  float64   `json:"loser_before"`
	WinnerAfter  float64   `json:"winner_after"`
	LoserAfter   float64   `json:"loser_after"`
}

// Decision is the raw human choice as submitted by the UI collaborator.
// DecisionID is a client-chosen idempotency key.
type Decision struct {
	DecisionID string `json:"decision_id"`
	WinnerID   string `json:"winner_id"`
	LoserID    string `json:"loser_id"`
}
