package ingestion

import "errors"

var (
	// ErrStoreRequired indicates a nil graph repository was provided.
	ErrStoreRequired = errors.New("graph repository is required")

	// ErrProviderRequired indicates a nil AI provider was provided.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrExtractorRequired indicates a nil text extractor was provided.
	ErrExtractorRequired = errors.New("text extractor is required")

	// ErrPipelineRequired indicates a nil pipeline was provided.
	ErrPipelineRequired = errors.New("pipeline is required")

	// ErrJobNotFound indicates an unknown job id.
	ErrJobNotFound = errors.New("job not found")

	// ErrQueueClosed indicates an enqueue on a released queue.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrQueueFull indicates the pending job buffer is at capacity.
	ErrQueueFull = errors.New("queue is full")
)
