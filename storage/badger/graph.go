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


package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

// GraphStore implements storage.GraphRepository for BadgerDB.
type GraphStore struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.GraphRepository = (*GraphStore)(nil)

// NewGraphStore creates a GraphStore on top of an open backend.
func NewGraphStore(backend *Backend) (*GraphStore, error) {
	return &GraphStore{
		backend: backend,
		logger:  slog.Default().With("component", "graph-store"),
	}, nil
}

// Close closes the underlying backend.
func (s *GraphStore) Close() error {
	return s.backend.Close()
}

// Update executes fn inside a single read-write transaction and commits only
// when fn returns nil. Writes made through the transaction are visible to
// reads later in the same transaction, which is what lets the acyclicity
// check see edges inserted earlier in the same batch.
func (s *GraphStore) Update(ctx context.Context, fn func(tx storage.GraphTx) error) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := fn(&graphTx{tx: tx}); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: %v", storage.ErrTransactionFailed, err)
		}
		return nil
	}, true)
}

// graphTx is the storage.GraphTx implementation bound to one badger
// transaction.
type graphTx struct {
	tx *badger.Txn
}

var _ storage.GraphTx = (*graphTx)(nil)

// UpsertDocument writes a document entity, replacing any previous version
// and re-indexing its content. The original creation timestamp survives
// the overwrite.
func (t *graphTx) UpsertDocument(entity *core.Entity) error {
	if err := core.ValidateEntity(entity); err != nil {
		return err
	}

	existing, err := readEntity(t.tx, makeEntityKey(entity.Id))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if existing != nil {
		entity.CreatedAt = existing.CreatedAt
	} else {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = now

	value, err := storage.MarshalEntity(entity)
	if err != nil {
		return err
	}
	if err := t.tx.Set(makeEntityKey(entity.Id), value); err != nil {
		return err
	}

	return indexEntityText(t.tx, entity.Id, entity.Content)
}

// InsertEntity writes a non-document entity unless the id already exists.
// The first writer wins; a conflicting insert is a silent no-op.
func (t *graphTx) InsertEntity(entity *core.Entity) (bool, error) {
	if err := core.ValidateEntity(entity); err != nil {
		return false, err
	}

	key := makeEntityKey(entity.Id)
	existing, err := readEntity(t.tx, key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	now := time.Now().UTC()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	value, err := storage.MarshalEntity(entity)
	if err != nil {
		return false, err
	}
	if err := t.tx.Set(key, value); err != nil {
		return false, err
	}

	if entity.Content != "" {
		if err := indexEntityText(t.tx, entity.Id, entity.Content); err != nil {
			return false, err
		}
	}
	return true, nil
}

// InsertRelationship writes a directed edge unless the identical
// (source, target, class) triple already exists. An edge that would close
// a directed cycle fails with storage.ErrCycle, which rolls back the
// enclosing transaction.
func (t *graphTx) InsertRelationship(rel *core.Relationship) (bool, error) {
	if err := core.ValidateRelationship(rel); err != nil {
		return false, err
	}

	outKey := makeEdgeKey(edgeOutPrefix, rel.Source, rel.Target, rel.Class)
	if _, err := t.tx.Get(outKey); err == nil {
		return false, nil
	} else if err != badger.ErrKeyNotFound {
		return false, err
	}

	cyclic, err := wouldCreateCycle(t.tx, rel.Source, rel.Target)
	if err != nil {
		return false, err
	}
	if cyclic {
		return false, fmt.Errorf("%w: %d -> %d", storage.ErrCycle, rel.Source, rel.Target)
	}

	rel.CreatedAt = time.Now().UTC()
	value, err := storage.MarshalRelationship(rel)
	if err != nil {
		return false, err
	}
	if err := t.tx.Set(outKey, value); err != nil {
		return false, err
	}
	inKey := makeEdgeKey(edgeInPrefix, rel.Target, rel.Source, rel.Class)
	if err := t.tx.Set(inKey, value); err != nil {
		return false, err
	}
	return true, nil
}

// wouldCreateCycle reports whether adding source->target closes a directed
// cycle, i.e. whether source is already reachable from target. Breadth-first
// over the outgoing edge index, which inside a write transaction includes
// edges inserted earlier in the same transaction.
func wouldCreateCycle(tx *badger.Txn, source, target core.ID) (bool, error) {
	if source == target {
		return true, nil
	}

	visited := map[core.ID]bool{target: true}
	queue := []core.ID{target}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		found, err := scanOutgoing(tx, node, func(far core.ID) {
			if !visited[far] {
				visited[far] = true
				queue = append(queue, far)
			}
		}, source)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// scanOutgoing iterates the outgoing edges of node, invoking visit for each
// far endpoint. Returns true as soon as stopAt is seen.
func scanOutgoing(tx *badger.Txn, node core.ID, visit func(core.ID), stopAt core.ID) (bool, error) {
	prefix := makePartialEdgeKey(edgeOutPrefix, node)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		far := edgeKeyFarID(iter.Item().Key())
		if far == stopAt {
			return true, nil
		}
		visit(far)
	}
	return false, nil
}

// edgeKeyFarID recovers the far endpoint from an edge index key.
func edgeKeyFarID(key []byte) core.ID {
	offset := len(edgeOutPrefix) + 1 + 8
	return core.ID(binary.BigEndian.Uint64(key[offset : offset+8]))
}

// GetEntity retrieves a single entity by ID.
func (s *GraphStore) GetEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	var result *core.Entity
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetEntities retrieves multiple entities by their IDs. Unknown IDs are
// skipped.
func (s *GraphStore) GetEntities(ctx context.Context, ids []core.ID) ([]*core.Entity, error) {
	var result []*core.Entity
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			if entity != nil {
				result = append(result, entity)
			}
		}
		return nil
	}, false)
	return result, err
}

// Relationships returns the one-hop neighborhood of an entity, covering both
// outgoing and incoming edges.
func (s *GraphStore) Relationships(ctx context.Context, id core.ID) ([]*core.Neighbor, error) {
	var neighbors []*core.Neighbor

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		collect := func(prefix string, direction core.Direction) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = makePartialEdgeKey(prefix, id)
			iter := tx.NewIterator(opts)
			defer iter.Close()

			for iter.Rewind(); iter.Valid(); iter.Next() {
				var rel *core.Relationship
				err := iter.Item().Value(func(val []byte) error {
					var err error
					rel, err = storage.UnmarshalRelationship(val)
					return err
				})
				if err != nil {
					return err
				}

				farID := rel.Target
				if direction == core.DirectionIncoming {
					farID = rel.Source
				}
				far, err := readEntity(tx, makeEntityKey(farID))
				if err != nil {
					return err
				}
				if far == nil {
					// Dangling edge; the entity write should have been in
					// the same transaction, so treat as corruption and skip.
					continue
				}

				neighbors = append(neighbors, &core.Neighbor{
					Relationship: rel,
					Entity:       far,
					Direction:    direction,
				})
			}
			return nil
		}

		if err := collect(edgeOutPrefix, core.DirectionOutgoing); err != nil {
			return err
		}
		return collect(edgeInPrefix, core.DirectionIncoming)
	}, false)

	return neighbors, err
}

// FindSimilar ranks document entities by cosine similarity against vector.
// Embeddings are unit-normalized by the providers, so the dot product is the
// cosine similarity.
func (s *GraphStore) FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.RankedDocument, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var ranked []core.RankedDocument
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entity *core.Entity
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity == nil || !entity.IsDocument() || len(entity.Embedding) == 0 {
				continue
			}

			ranked = append(ranked, core.RankedDocument{
				DocumentId: entity.Id,
				Score:      dotProduct(vector, entity.Embedding),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sortAndRank(ranked, limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SearchLexical ranks document entities by normalized term frequency against
// the query terms, using the full-text posting index.
func (s *GraphStore) SearchLexical(ctx context.Context, query string, limit int) ([]core.RankedDocument, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	terms := tokenizeAndFilter(query)
	if len(terms) == 0 {
		return nil, nil
	}
	unique := make(map[string]bool, len(terms))
	for _, term := range terms {
		unique[term] = true
	}

	hits := make(map[core.ID]uint64)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for term := range unique {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = makePartialTermKey(term)
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				count, err := readCount(iter.Item())
				if err != nil {
					iter.Close()
					return err
				}
				hits[termPostingDocID(iter.Item().Key())] += count
			}
			iter.Close()
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	ranked := make([]core.RankedDocument, 0, len(hits))
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for id, sum := range hits {
			item, err := tx.Get(makeDocLengthKey(id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			length, err := readCount(item)
			if err != nil {
				return err
			}
			if length == 0 {
				continue
			}
			ranked = append(ranked, core.RankedDocument{
				DocumentId: id,
				Score:      float32(sum) / float32(length),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sortAndRank(ranked, limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ListDocuments pages through document entities in id order, starting
// strictly after afterID.
func (s *GraphStore) ListDocuments(ctx context.Context, afterID core.ID, limit int) ([]*core.Entity, error) {
	var result []*core.Entity

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := opts.Prefix
		if afterID > 0 {
			start = makeEntityKey(afterID)
		}
		for iter.Seek(start); iter.Valid(); iter.Next() {
			var entity *core.Entity
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity == nil || !entity.IsDocument() || entity.Id <= afterID {
				continue
			}

			result = append(result, entity)
			if limit > 0 && len(result) >= limit {
				return nil
			}
		}
		return nil
	}, false)

	return result, err
}

// UpdateEmbedding replaces the stored embedding of an entity.
func (s *GraphStore) UpdateEmbedding(ctx context.Context, id core.ID, vector []float32) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEntityKey(id)
		entity, err := readEntity(tx, key)
		if err != nil {
			return err
		}
		if entity == nil {
			return storage.ErrNotFound
		}

		entity.Embedding = vector
		entity.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalEntity(entity)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readEntity reads an entity from the transaction. Returns nil when the key
// is absent.
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}

// sortAndRank orders ranked documents by descending score with id as the
// deterministic tie-break, then assigns 1-indexed ranks.
func sortAndRank(ranked []core.RankedDocument, limit int) {
	slices.SortFunc(ranked, func(a, b core.RankedDocument) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.DocumentId < b.DocumentId {
			return -1
		}
		if a.DocumentId > b.DocumentId {
			return 1
		}
		return 0
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
