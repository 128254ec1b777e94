// Package ranking derives the leaderboard from the current ratings.
//
// Ordering: rating DESC, then listing id ASC. The id tie-break keeps the
// output deterministic, so repeated calls on unchanged state are identical.
package ranking

import "sort"

// Entry is one leaderboard row.
type Entry struct {
	Rank      int     `json:"rank"`
	ListingID string  `json:"listing_id"`
	Rating    float64 `json:"rating"`
}

// Rankings returns all listings ordered best-first with ranks assigned 1..n.
// Pure function of the ratings snapshot.
func Rankings(ratings map[string]float64) []Entry {
	entries := make([]Entry, 0, len(ratings))
	for id, r := range ratings {
		entries = append(entries, Entry{ListingID: id, Rating: r})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].ListingID < entries[j].ListingID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopN returns at most n leading entries.
func TopN(ratings map[string]float64, n int) []Entry {
	entries := Rankings(ratings)
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
