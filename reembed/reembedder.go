// Copyright 2025 Loreweave Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch.
	BatchSize int

	// ReportInterval is how often to report progress (number of documents).
	ReportInterval int

	// MaxRetries is the retry budget for each failed embed or write.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates embeddings for every document in the store.
type Reembedder struct {
	store    storage.GraphRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	iterator *DocumentIterator
}

// NewReembedder creates a re-embedder.
// progress: where to write progress output (typically os.Stderr).
func NewReembedder(store storage.GraphRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
		iterator: NewDocumentIterator(store, config.BatchSize),
	}, nil
}

// Run re-embeds every document and writes the new vectors back.
// Each batch is embedded in one call; vector writes retry with backoff.
func (r *Reembedder) Run(ctx context.Context) error {
	fmt.Fprintf(r.progress, "Starting re-embedding (batch size: %d)\n", r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, r.config.ReportInterval)
	tracker.Start()

	err := r.iterator.ForEach(ctx, func(documents []*core.Entity) error {
		if err := r.processBatch(ctx, documents); err != nil {
			return fmt.Errorf("processing batch: %w", err)
		}
		tracker.Increment(len(documents))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	total := tracker.Count()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d documents in %v (%.1f docs/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

// processBatch embeds the batch's texts in one call and writes each vector
// back individually.
func (r *Reembedder) processBatch(ctx context.Context, documents []*core.Entity) error {
	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = embeddingText(doc)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("embedding %d documents: %w", len(documents), err)
	}
	if len(vectors) != len(documents) {
		return fmt.Errorf("embedder returned %d vectors for %d documents",
			len(vectors), len(documents))
	}

	for i, doc := range documents {
		vector := vectors[i]
		err := RetryWithBackoff(ctx, func() error {
			return r.store.UpdateEmbedding(ctx, doc.Id, vector)
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("updating embedding of %d: %w", doc.Id, err)
		}
	}
	return nil
}

// embeddingText picks the text a document's vector represents: the stored
// summary when the ingestion pipeline recorded one, else the content.
func embeddingText(doc *core.Entity) string {
	if summary := doc.Metadata["summary"]; summary != "" {
		return summary
	}
	return doc.Content
}
