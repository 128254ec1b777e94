package repository

import (
	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/rating"
)

// Replay recomputes the ratings map by re-applying the history log from the
// baseline rating for every listing. ids seeds listings that exist in the
// state but never played a match.
//
// For a well-formed log the result equals the stored ratings exactly; that
// equality is the determinism invariant of the persisted state and is what
// tests and the verification harness assert.
func Replay(history []model.Match, ids []string, baseline float64, eng *rating.Engine) (map[string]float64, error) {
	ratings := make(map[string]float64, len(ids))
	for _, id := range ids {
		ratings[id] = baseline
	}

	for _, m := range history {
		if _, ok := ratings[m.WinnerID]; !ok {
			ratings[m.WinnerID] = baseline
		}
		if _, ok := ratings[m.LoserID]; !ok {
			ratings[m.LoserID] = baseline
		}
		newWinner, newLoser, err := eng.Update(ratings[m.WinnerID], ratings[m.LoserID], rating.OutcomeAWins)
		if err != nil {
			return nil, err
		}
		ratings[m.WinnerID] = newWinner
		ratings[m.LoserID] = newLoser
	}
	return ratings, nil
}
