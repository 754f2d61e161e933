package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

// TextExtractor is the text-extraction boundary: given a file path, return
// extracted plain text or fail.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Archiver is the archival boundary: append the file into a cumulative
// container and delete the original.
type Archiver interface {
	Archive(ctx context.Context, path string) error
}

// ProgressFunc receives progress checkpoints (0-100) as a job advances.
type ProgressFunc func(progress int)

// Progress checkpoints reported after each stage. Purely observational.
const (
	progressExtracted  = 10
	progressClassified = 30
	progressValidated  = 45
	progressCommands   = 60
	progressEmbedded   = 75
	progressExecuted   = 85
	progressArchived   = 95
	progressDone       = 100
)

// Pipeline runs the ingestion stages for one file: extract, classify,
// optionally validate, generate commands, embed, execute, archive.
// A failure at any stage aborts the job without mutating the graph store.
type Pipeline struct {
	store             storage.GraphRepository
	provider          ai.Provider
	extractor         TextExtractor
	executor          *Executor
	archiver          Archiver
	validationEnabled bool
	maxClassifyChars  int
	logger            *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithValidation enables or disables the validation stage.
// Disabled by default.
func WithValidation(enabled bool) PipelineOption {
	return func(p *Pipeline) error {
		p.validationEnabled = enabled
		return nil
	}
}

// WithArchiver sets the archiver invoked after a successful execute stage.
// Without one the archive stage is skipped and the source file stays put.
func WithArchiver(archiver Archiver) PipelineOption {
	return func(p *Pipeline) error {
		p.archiver = archiver
		return nil
	}
}

// WithClassifyCap bounds how much extracted text is handed to the
// classifier. Default is ai.DefaultMaxPromptChars.
func WithClassifyCap(chars int) PipelineOption {
	return func(p *Pipeline) error {
		if chars > 0 {
			p.maxClassifyChars = chars
		}
		return nil
	}
}

// WithPipelineLogger sets a custom logger. Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	store storage.GraphRepository,
	provider ai.Provider,
	extractor TextExtractor,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	executor, err := NewExecutor(store)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:            store,
		provider:         provider,
		extractor:        extractor,
		executor:         executor,
		maxClassifyChars: ai.DefaultMaxPromptChars,
		logger:           slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run executes the stages for one file. report may be nil.
func (p *Pipeline) Run(ctx context.Context, filePath string, report ProgressFunc) error {
	if report == nil {
		report = func(int) {}
	}
	logger := p.logger.With("file", filePath)

	text, err := p.extractor.Extract(ctx, filePath)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", filePath, err)
	}
	report(progressExtracted)

	classifyInput := text
	if len(classifyInput) > p.maxClassifyChars {
		classifyInput = classifyInput[:p.maxClassifyChars]
	}
	meta := ai.FileMeta{
		Path:      filePath,
		Name:      filepath.Base(filePath),
		Extension: filepath.Ext(filePath),
	}
	classification, err := p.provider.Classifier().Classify(ctx, classifyInput, meta)
	if err != nil {
		return fmt.Errorf("classifying %s: %w", filePath, err)
	}
	logger.Debug("classified document",
		"title", classification.Title,
		"documentType", classification.DocumentType,
		"entities", len(classification.Entities))
	report(progressClassified)

	if p.validationEnabled {
		result, err := p.provider.Validator().Validate(ctx, text, classification)
		if err != nil {
			return fmt.Errorf("validating %s: %w", filePath, err)
		}
		if !result.IsValid {
			logger.Warn("classification rejected by validator",
				"reasoning", result.Reasoning)
			return fmt.Errorf("validating %s: %s: %w",
				filePath, result.Reasoning, ai.ErrValidationRejected)
		}
	}
	report(progressValidated)

	documentID := core.DocumentID(filePath)
	commands, err := p.provider.CommandGenerator().GenerateCommands(ctx, classification, documentID)
	if err != nil {
		return fmt.Errorf("generating commands for %s: %w", filePath, err)
	}
	report(progressCommands)

	embedding, err := p.provider.Embedder().EmbedText(ctx, classification.Summary)
	if err != nil {
		return fmt.Errorf("embedding summary of %s: %w", filePath, err)
	}
	report(progressEmbedded)

	document := &core.Entity{
		Id:        documentID,
		Class:     core.EntityClassDocument,
		Type:      string(classification.DocumentType),
		Content:   text,
		Embedding: embedding,
		Metadata: map[string]string{
			"file_path":     filePath,
			"title":         classification.Title,
			"summary":       classification.Summary,
			"document_type": string(classification.DocumentType),
		},
	}
	if err := p.executor.Execute(ctx, document, commands); err != nil {
		return fmt.Errorf("executing graph mutations for %s: %w", filePath, err)
	}
	report(progressExecuted)

	if p.archiver != nil {
		// The graph commit is durable at this point; an archival failure is
		// surfaced but cannot roll it back.
		if err := p.archiver.Archive(ctx, filePath); err != nil {
			return fmt.Errorf("archiving %s: %w", filePath, err)
		}
	}
	report(progressArchived)

	logger.Info("document ingested", "documentId", documentID)
	report(progressDone)
	return nil
}
