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


package storage

import (
	"context"

	"github.com/loreweave/loreweave/core"
)

// GraphTx is the mutation surface of a single read-write transaction.
// All writes made through a GraphTx become visible to later reads in the
// same transaction, so the acyclicity check on InsertRelationship sees
// edges inserted earlier in the same batch.
type GraphTx interface {
	// UpsertDocument inserts a document entity, replacing any existing
	// entity with the same id. Relationships attached to the id survive.
	UpsertDocument(entity *core.Entity) error

	// InsertEntity inserts a non-document entity. If an entity with the
	// same id already exists the call is a no-op and returns false.
	InsertEntity(entity *core.Entity) (bool, error)

	// InsertRelationship inserts a directed edge. Re-inserting an edge
	// with identical endpoints and class is a no-op and returns false.
	// An edge that would close a directed cycle fails with ErrCycle.
	InsertRelationship(rel *core.Relationship) (bool, error)
}

// GraphRepository is the persistent knowledge graph. Mutations run inside
// Update so a batch either fully applies or leaves the graph untouched.
type GraphRepository interface {
	// Update executes fn inside a single read-write transaction. The
	// transaction commits only when fn returns nil; any error rolls back
	// every mutation fn performed.
	Update(ctx context.Context, fn func(tx GraphTx) error) error

	// GetEntity retrieves an entity by id. Returns ErrNotFound when the
	// id is unknown.
	GetEntity(ctx context.Context, id core.ID) (*core.Entity, error)

	// GetEntities retrieves a batch of entities in one read transaction.
	// Unknown ids are skipped.
	GetEntities(ctx context.Context, ids []core.ID) ([]*core.Entity, error)

	// Relationships returns the one-hop neighborhood of id, covering both
	// outgoing and incoming edges.
	Relationships(ctx context.Context, id core.ID) ([]*core.Neighbor, error)

	// FindSimilar ranks document entities by cosine similarity against
	// vector and returns the top limit matches, best first.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.RankedDocument, error)

	// SearchLexical ranks document entities by term overlap with the
	// query text and returns the top limit matches, best first.
	SearchLexical(ctx context.Context, query string, limit int) ([]core.RankedDocument, error)

	// ListDocuments pages through document entities in id order, starting
	// strictly after afterID. A limit of 0 means no limit.
	ListDocuments(ctx context.Context, afterID core.ID, limit int) ([]*core.Entity, error)

	// UpdateEmbedding replaces the stored embedding of an entity.
	UpdateEmbedding(ctx context.Context, id core.ID, vector []float32) error

	// Close releases the underlying storage resources.
	Close() error
}
