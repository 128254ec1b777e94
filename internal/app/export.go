package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ExportRankingsCSV streams the current leaderboard as CSV: rank and rating
// first, then the listing id and every attribute column the source sheet
// carries. Column order is deterministic so repeated exports diff cleanly.
func (s *Service) ExportRankingsCSV(ctx context.Context, w io.Writer) error {
	entries := s.Rankings(ctx, 0)

	s.mu.Lock()
	attrCols := map[string]struct{}{}
	for _, l := range s.listings {
		for k := range l.Attributes {
			attrCols[k] = struct{}{}
		}
	}
	listings := make(map[string]map[string]string, len(s.listings))
	links := make(map[string]string, len(s.listings))
	for id, l := range s.listings {
		listings[id] = l.Attributes
		links[id] = l.Link
	}
	s.mu.Unlock()

	cols := make([]string, 0, len(attrCols))
	for k := range attrCols {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	cw := csv.NewWriter(w)
	header := append([]string{"Rank", "Rating", "Listing ID", "Link"}, cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Rank),
			strconv.FormatFloat(e.Rating, 'f', 2, 64),
			e.ListingID,
			links[e.ListingID],
		}
		attrs := listings[e.ListingID]
		for _, c := range cols {
			row = append(row, attrs[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}
