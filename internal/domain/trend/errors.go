package trend

import "errors"

var (
	// ErrEmptySeries indicates a series with no daily records.
	ErrEmptySeries = errors.New("series has no records")

	// ErrUnsortedSeries indicates records out of date order.
	ErrUnsortedSeries = errors.New("series not sorted by date ascending")

	// ErrValueOutOfRange indicates a normalized score outside its
	// documented range.
	ErrValueOutOfRange = errors.New("value out of range")
)
