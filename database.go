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


// Package loreweave turns unstructured documents into a queryable knowledge
// graph and answers queries over it with hybrid vector+lexical retrieval.
// Database is the facade wiring the graph store, the AI provider, and the
// ingestion and search components together.
package loreweave

import (
	"io"
	"log/slog"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/ai/openai"
	"github.com/loreweave/loreweave/extract"
	"github.com/loreweave/loreweave/ingestion"
	"github.com/loreweave/loreweave/reembed"
	"github.com/loreweave/loreweave/search"
	"github.com/loreweave/loreweave/storage"
	"github.com/loreweave/loreweave/storage/badger"
)

// Database bundles an open graph store with an AI provider and hands out
// the pipeline, queue, and searcher constructors wired to them.
type Database struct {
	backend   *badger.Backend
	store     storage.GraphRepository
	provider  ai.Provider
	extractor *extract.Service
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration used when no explicit
// provider is supplied.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider (e.g. a mock in tests)
// instead of constructing the OpenAI-compatible one.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens an in-memory store instead of one on disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the graph store at filePath and wires the default
// components around it.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewGraphStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		store:     store,
		provider:  provider,
		extractor: extract.NewService(),
		logger:    slog.Default(),
	}, nil
}

// Close releases the provider and the underlying store.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the graph repository.
func (db *Database) Store() storage.GraphRepository {
	return db.store
}

// Provider returns the AI provider.
func (db *Database) Provider() ai.Provider {
	return db.provider
}

// Extractor returns the text-extraction service.
func (db *Database) Extractor() *extract.Service {
	return db.extractor
}

// NewPipeline creates an ingestion pipeline over this database.
func (db *Database) NewPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.store, db.provider, db.extractor, opts...)
}

// NewQueue creates a job queue driving a pipeline over this database.
func (db *Database) NewQueue(pipelineOpts []ingestion.PipelineOption, queueOpts ...ingestion.QueueOption) (*ingestion.Queue, error) {
	pipeline, err := db.NewPipeline(pipelineOpts...)
	if err != nil {
		return nil, err
	}
	return ingestion.NewQueue(pipeline, queueOpts...)
}

// NewSearcher creates a hybrid searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.store, db.provider, opts...)
}

// NewReembedder creates a re-embedding maintenance run over this database.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.store, db.provider.Embedder(), config, progress)
}
