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

	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

// DefaultBatchSize is the default number of documents fetched per batch.
const DefaultBatchSize = 100

// DocumentIterator pages through all document entities in id order.
type DocumentIterator struct {
	store     storage.GraphRepository
	batchSize int
}

// NewDocumentIterator creates an iterator fetching batchSize documents at a
// time. A non-positive batchSize falls back to DefaultBatchSize.
func NewDocumentIterator(store storage.GraphRepository, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DocumentIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of documents. Iteration stops on the
// first error from fn; context cancellation is checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Entity) error) error {
	var after core.ID
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.store.ListDocuments(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		after = batch[len(batch)-1].Id
	}
}
