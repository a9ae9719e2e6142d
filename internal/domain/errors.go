package domain

import "errors"

// Series validation errors.
var (
	// ErrUnorderedSeries is returned when timestamps are not strictly increasing.
	ErrUnorderedSeries = errors.New("price series timestamps must be strictly increasing")

	// ErrNonPositivePrice is returned when a series contains a price <= 0.
	ErrNonPositivePrice = errors.New("price series contains non-positive price")
)
