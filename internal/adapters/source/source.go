// Package source ingests listing records from the external spreadsheet
// collaborator. The core only consumes the derived id; every column is
// passed through as an opaque display-only attribute.
package source

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

const defaultFetchTimeout = 15 * time.Second

// defaultLinkColumn is the sheet column whose value identifies a listing.
const defaultLinkColumn = "Link"

// Source supplies the candidate listing records.
type Source interface {
	// Listings fetches and parses the current listing set. Rows without
	// a usable link are skipped; ids are stable across re-ingestion.
	Listings(ctx context.Context) ([]model.Listing, error)
}

// Option applies a configuration option to the SheetSource.
type Option func(*SheetSource)

// WithHTTPClient overrides the HTTP client used for URL locations.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SheetSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLinkColumn overrides the column treated as the stable id source.
func WithLinkColumn(name string) Option {
	return func(s *SheetSource) {
		if name != "" {
			s.linkColumn = name
		}
	}
}

// SheetSource reads a spreadsheet CSV export from an http(s) URL or a local
// file path.
type SheetSource struct {
	location   string
	linkColumn string
	client     *http.Client
}

// NewSheetSource creates a source for the given location.
func NewSheetSource(location string, opts ...Option) *SheetSource {
	s := &SheetSource{
		location:   normalizeSheetURL(location),
		linkColumn: defaultLinkColumn,
		client:     &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listings fetches the CSV and converts rows into listing records.
func (s *SheetSource) Listings(ctx context.Context) ([]model.Listing, error) {
	rc, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return parseCSV(rc, s.linkColumn)
}

// open returns a reader for the configured location.
func (s *SheetSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFetchFailed, resp.StatusCode, s.location)
		}
		return resp.Body, nil
	}

	f, err := os.Open(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return f, nil
}

// parseCSV converts CSV rows into listings, skipping rows with no usable link.
func parseCSV(r io.Reader, linkColumn string) ([]model.Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // sheets pad or trim trailing columns freely

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrFetchFailed, err)
	}

	linkIdx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), linkColumn) {
			linkIdx = i
			break
		}
	}
	if linkIdx < 0 {
		return nil, fmt.Errorf("%w: %q not in header %v", ErrMissingLinkColumn, linkColumn, header)
	}

	var listings []model.Listing
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %w", ErrFetchFailed, err)
		}
		if linkIdx >= len(row) {
			continue
		}
		link := strings.TrimSpace(row[linkIdx])
		if link == "" || strings.EqualFold(link, "nan") {
			continue
		}

		attrs := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				attrs[strings.TrimSpace(name)] = strings.TrimSpace(row[i])
			}
		}
		listings = append(listings, model.Listing{
			ID:         DeriveID(link),
			Link:       link,
			Attributes: attrs,
		})
	}
	return listings, nil
}

// DeriveID produces the stable listing id for a link. FNV-1a keeps ids
// stable across runs and re-ingestion, so a re-ingested row maps back to
// the same rating.
func DeriveID(link string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(link))
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeSheetURL rewrites a Google Sheets share URL into its CSV export
// form; anything else passes through unchanged.
func normalizeSheetURL(location string) string {
	if strings.Contains(location, "docs.google.com/spreadsheets") && strings.Contains(location, "/edit") {
		if idx := strings.Index(location, "/edit"); idx >= 0 {
			return location[:idx] + "/export?format=csv"
		}
	}
	return location
}
