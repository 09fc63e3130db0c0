package heap

import "errors"

var (
	// ErrBadFragmentSize indicates a zero or negative fragment size.
	ErrBadFragmentSize = errors.New("heap: fragment size must be positive")

	// ErrNoRegion indicates an empty backing region.
	ErrNoRegion = errors.New("heap: empty region")
)
