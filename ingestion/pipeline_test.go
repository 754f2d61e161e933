package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/ai/mock"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/extract"
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

func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestPipeline(t *testing.T, store storage.GraphRepository, provider ai.Provider, opts ...PipelineOption) *Pipeline {
	t.Helper()
	pipeline, err := NewPipeline(store, provider, extract.NewService(), opts...)
	require.NoError(t, err)
	return pipeline
}

func TestPipelineIngestsDocument(t *testing.T) {
	store := newTestStore(t)
	provider := mock.NewMockProvider()
	pipeline := newTestPipeline(t, store, provider)
	ctx := context.Background()

	path := writeSourceFile(t, "redis-notes.md",
		"Notes about Redis connection pooling and the Aria scheduler.")
	require.NoError(t, pipeline.Run(ctx, path, nil))

	docID := core.DocumentID(path)
	doc, err := store.GetEntity(ctx, docID)
	require.NoError(t, err)
	assert.True(t, doc.IsDocument())
	assert.Contains(t, doc.Content, "Redis connection pooling")
	assert.NotEmpty(t, doc.Embedding)
	assert.Equal(t, path, doc.Metadata["file_path"])
	assert.Equal(t, "redis-notes", doc.Metadata["title"])

	// The mock classifier extracts capitalized words, so Redis and Aria
	// become concepts linked by MENTIONS edges.
	neighbors, err := store.Relationships(ctx, docID)
	require.NoError(t, err)
	require.NotEmpty(t, neighbors)
	names := make(map[string]bool)
	for _, n := range neighbors {
		assert.Equal(t, core.RelationshipMentions, n.Relationship.Class)
		assert.Equal(t, core.DirectionOutgoing, n.Direction)
		assert.Equal(t, core.EntityClassConcept, n.Entity.Class)
		names[n.Entity.Metadata["name"]] = true
	}
	assert.True(t, names["Redis"], "expected a Redis concept")
	assert.True(t, names["Aria"], "expected an Aria concept")
}

func TestPipelineReingestionIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockProvider())
	ctx := context.Background()

	path := writeSourceFile(t, "doc.md", "Redis pooling notes")
	require.NoError(t, pipeline.Run(ctx, path, nil))

	first, err := store.Relationships(ctx, core.DocumentID(path))
	require.NoError(t, err)

	require.NoError(t, pipeline.Run(ctx, path, nil))

	second, err := store.Relationships(ctx, core.DocumentID(path))
	require.NoError(t, err)
	assert.Len(t, second, len(first), "re-ingestion must not duplicate edges")

	docs, err := store.ListDocuments(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "re-ingestion must not duplicate the document")
}

func TestPipelineExtractionFailure(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockProvider())
	ctx := context.Background()

	path := writeSourceFile(t, "empty.txt", "   \n\t")
	err := pipeline.Run(ctx, path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrEmptyText)

	docs, err := store.ListDocuments(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, docs, "failed extraction must not touch the store")
}

func TestPipelineValidationGate(t *testing.T) {
	store := newTestStore(t)
	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockValidator().ValidateFunc = func(ctx context.Context, snippet string, c *ai.Classification) (*ai.ValidationResult, error) {
		return &ai.ValidationResult{IsValid: false, Reasoning: "entity has no textual basis"}, nil
	}
	pipeline := newTestPipeline(t, store, provider, WithValidation(true))
	ctx := context.Background()

	path := writeSourceFile(t, "doc.md", "Plain text mentioning Redis")
	err := pipeline.Run(ctx, path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrValidationRejected)
	assert.True(t, core.IsContentError(err), "validation rejection is a content error")

	docs, err := store.ListDocuments(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, docs, "rejected classification must not write any rows")
}

func TestPipelineValidationDisabledByDefault(t *testing.T) {
	store := newTestStore(t)
	provider := mock.NewMockProvider().(*mock.MockProvider)
	pipeline := newTestPipeline(t, store, provider)

	path := writeSourceFile(t, "doc.md", "Redis notes")
	require.NoError(t, pipeline.Run(context.Background(), path, nil))
	assert.Zero(t, provider.GetMockValidator().CallCount(),
		"validator must not be called when the stage is disabled")
}

func TestPipelineProgressCheckpoints(t *testing.T) {
	store := newTestStore(t)
	pipeline := newTestPipeline(t, store, mock.NewMockProvider())

	path := writeSourceFile(t, "doc.md", "Redis notes")
	var seen []int
	require.NoError(t, pipeline.Run(context.Background(), path, func(p int) {
		seen = append(seen, p)
	}))

	require.NotEmpty(t, seen)
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1], "progress must advance monotonically")
	}
}

type failingArchiver struct{ err error }

func (a *failingArchiver) Archive(ctx context.Context, path string) error { return a.err }

func TestPipelineArchiverFailureSurfaces(t *testing.T) {
	store := newTestStore(t)
	archiveErr := errors.New("delete failed after append")
	pipeline := newTestPipeline(t, store, mock.NewMockProvider(),
		WithArchiver(&failingArchiver{err: archiveErr}))
	ctx := context.Background()

	path := writeSourceFile(t, "doc.md", "Redis notes")
	err := pipeline.Run(ctx, path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, archiveErr)

	// The graph commit happened before archival, so the document exists.
	_, err = store.GetEntity(ctx, core.DocumentID(path))
	assert.NoError(t, err)
}

func TestExecutorSkipsMalformedCommands(t *testing.T) {
	store := newTestStore(t)
	executor, err := NewExecutor(store)
	require.NoError(t, err)
	ctx := context.Background()

	doc := &core.Entity{
		Id:      core.DocumentID("/doc.md"),
		Class:   core.EntityClassDocument,
		Content: "content",
	}
	good := core.ConceptID("Redis", "technology")
	commands := []core.Command{
		{Action: core.ActionInsertEntity, Entity: &core.EntityPayload{Id: 0, Name: "no-id"}},
		{Action: core.ActionInsertEntity, Entity: &core.EntityPayload{Id: good, Name: "Redis", Type: "technology"}},
		{Action: core.ActionInsertRelationship, Relationship: &core.RelationshipPayload{Source: 0, Target: good}},
		{Action: core.ActionInsertRelationship, Relationship: &core.RelationshipPayload{Source: doc.Id, Target: good, Class: core.RelationshipMentions}},
		{Action: core.ActionInsertEntity}, // missing payload entirely
	}

	require.NoError(t, executor.Execute(ctx, doc, commands))

	neighbors, err := store.Relationships(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, neighbors, 1, "only the well-formed relationship should land")
	assert.Equal(t, good, neighbors[0].Entity.Id)
}

func TestExecutorCycleAbortsWholeBatch(t *testing.T) {
	store := newTestStore(t)
	executor, err := NewExecutor(store)
	require.NoError(t, err)
	ctx := context.Background()

	doc := &core.Entity{
		Id:      core.DocumentID("/doc.md"),
		Class:   core.EntityClassDocument,
		Content: "content",
	}
	concept := core.ConceptID("Redis", "technology")
	commands := []core.Command{
		{Action: core.ActionInsertEntity, Entity: &core.EntityPayload{Id: concept, Name: "Redis", Type: "technology"}},
		{Action: core.ActionInsertRelationship, Relationship: &core.RelationshipPayload{Source: doc.Id, Target: concept, Class: core.RelationshipMentions}},
		// Closes doc -> concept -> doc.
		{Action: core.ActionInsertRelationship, Relationship: &core.RelationshipPayload{Source: concept, Target: doc.Id, Class: "REFERS_BACK"}},
	}

	err = executor.Execute(ctx, doc, commands)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCycle)

	// Nothing from the batch may survive, including the document upsert.
	_, err = store.GetEntity(ctx, doc.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetEntity(ctx, concept)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
