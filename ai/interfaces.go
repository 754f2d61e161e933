package ai

import (
	"context"

	"github.com/loreweave/loreweave/core"
)

// Classifier names and classifies a document from its extracted text.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify analyzes text (callers cap it to a bounded prefix) together
	// with file metadata and returns a structured classification: title,
	// document type, summary, and the entities the document mentions.
	// A response that fails schema validation is a classification error.
	Classify(ctx context.Context, text string, meta FileMeta) (*Classification, error)
}

// Validator reviews a classification against the source text.
// Implementations must be thread-safe for concurrent use.
type Validator interface {
	// Validate checks whether the classification's entities are derivable
	// from the text snippet by reasonable inference. Only fabricated or
	// contradicted entities should be rejected.
	Validate(ctx context.Context, snippet string, classification *Classification) (*ValidationResult, error)
}

// CommandGenerator turns a classification into an ordered list of graph
// mutation commands. Implementations must be thread-safe for concurrent use.
type CommandGenerator interface {
	// GenerateCommands produces, for each classified entity, one
	// INSERT_ENTITY command and one INSERT_RELATIONSHIP command linking the
	// document to it with a MENTIONS edge.
	GenerateCommands(ctx context.Context, classification *Classification, documentID core.ID) ([]core.Command, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates the AI capabilities for convenient initialization and
// lifecycle management. A provider's services share configuration and
// resources.
type Provider interface {
	// Classifier returns the document classification service.
	Classifier() Classifier

	// Validator returns the classification validation service.
	Validator() Validator

	// CommandGenerator returns the command generation service.
	CommandGenerator() CommandGenerator

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
