package source

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrFetchFailed       = errors.New("listing fetch failed")
	ErrMissingLinkColumn = errors.New("missing link column")
)
