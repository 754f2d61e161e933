package search

import "errors"

var (
	// ErrStoreRequired indicates a nil graph repository was provided.
	ErrStoreRequired = errors.New("graph repository is required")

	// ErrProviderRequired indicates a nil AI provider was provided.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrEmptyQuery indicates a blank query string.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = errors.New("limit must be positive")
)
