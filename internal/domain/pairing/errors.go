package pairing

import "errors"

// Sentinel kinds for pairing errors.
var (
	ErrNotEnoughListings = errors.New("not enough listings to form a pair")
)
