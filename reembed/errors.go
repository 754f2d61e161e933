package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a non-positive retry budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrStoreRequired indicates a nil graph repository was provided.
	ErrStoreRequired = errors.New("graph repository is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)
