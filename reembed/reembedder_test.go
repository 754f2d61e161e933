package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreweave/loreweave/ai/mock"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
	"github.com/loreweave/loreweave/storage/badger"
)

func newTestStore(t *testing.T) storage.GraphRepository {
	t.Helper()
	store, err := badger.NewMemoryGraphStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedDocuments(t *testing.T, store storage.GraphRepository, count int) []core.ID {
	t.Helper()
	ids := make([]core.ID, count)
	err := store.Update(context.Background(), func(tx storage.GraphTx) error {
		for i := 0; i < count; i++ {
			path := fmt.Sprintf("/docs/%d.md", i)
			ids[i] = core.DocumentID(path)
			if err := tx.UpsertDocument(&core.Entity{
				Id:        ids[i],
				Class:     core.EntityClassDocument,
				Content:   fmt.Sprintf("content of document %d", i),
				Embedding: []float32{0, 0, 0},
				Metadata:  map[string]string{"summary": fmt.Sprintf("summary %d", i)},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return ids
}

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedderUpdatesAllDocuments(t *testing.T) {
	store := newTestStore(t)
	ids := seedDocuments(t, store, 5)

	provider := mock.NewMockProvider().(*mock.MockProvider)
	embedder := provider.GetMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 2, 3}
		}
		return vectors, nil
	}

	var out bytes.Buffer
	r, err := NewReembedder(store, embedder, testConfig(), &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	for _, id := range ids {
		doc, err := store.GetEntity(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2, 3}, doc.Embedding)
	}
	assert.Contains(t, out.String(), "Processed 5 documents")
}

func TestReembedderEmbedsSummaries(t *testing.T) {
	store := newTestStore(t)
	seedDocuments(t, store, 1)

	provider := mock.NewMockProvider().(*mock.MockProvider)
	embedder := provider.GetMockEmbedder()
	var embedded []string
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		embedded = append(embedded, texts...)
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1}
		}
		return vectors, nil
	}

	var out bytes.Buffer
	r, err := NewReembedder(store, embedder, testConfig(), &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, embedded, 1)
	assert.Equal(t, "summary 0", embedded[0],
		"the stored summary is what the document vector represents")
}

func TestReembedderRetriesTransientFailures(t *testing.T) {
	store := newTestStore(t)
	seedDocuments(t, store, 2)

	provider := mock.NewMockProvider().(*mock.MockProvider)
	embedder := provider.GetMockEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("endpoint hiccup")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{9}
		}
		return vectors, nil
	}

	var out bytes.Buffer
	r, err := NewReembedder(store, embedder, testConfig(), &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.GreaterOrEqual(t, calls, 2)
}

func TestReembedderEmptyStore(t *testing.T) {
	store := newTestStore(t)

	provider := mock.NewMockProvider().(*mock.MockProvider)
	var out bytes.Buffer
	r, err := NewReembedder(store, provider.GetMockEmbedder(), testConfig(), &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "Processed 0 documents")
}

func TestDocumentIteratorBatches(t *testing.T) {
	store := newTestStore(t)
	seedDocuments(t, store, 5)

	it := NewDocumentIterator(store, 2)
	var batchSizes []int
	err := it.ForEach(context.Background(), func(docs []*core.Entity) error {
		batchSizes = append(batchSizes, len(docs))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestNewReembedderValidation(t *testing.T) {
	store := newTestStore(t)
	provider := mock.NewMockProvider().(*mock.MockProvider)

	_, err := NewReembedder(nil, provider.GetMockEmbedder(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewReembedder(store, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
