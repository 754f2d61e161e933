package core

import (
	"testing"
	"time"
)

func TestEntityMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	entity := Entity{
		Id:        DocumentID("/docs/redis.md"),
		Class:     EntityClassDocument,
		Type:      "TechSpec",
		Content:   "Redis connection pooling with Aria",
		Embedding: []float32{0.25, -0.5, 0.125},
		Metadata:  map[string]string{"path": "/docs/redis.md", "title": "Redis Pooling"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	buf := make([]byte, EntityMUS.Size(entity))
	n := EntityMUS.Marshal(entity, buf)
	if n != len(buf) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(buf))
	}

	got, n, err := EntityMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Unmarshal consumed %d bytes, want %d", n, len(buf))
	}

	if got.Id != entity.Id || got.Class != entity.Class || got.Type != entity.Type || got.Content != entity.Content {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Embedding) != len(entity.Embedding) {
		t.Fatalf("embedding length mismatch: %d vs %d", len(got.Embedding), len(entity.Embedding))
	}
	for i := range got.Embedding {
		if got.Embedding[i] != entity.Embedding[i] {
			t.Errorf("embedding[%d] = %f, want %f", i, got.Embedding[i], entity.Embedding[i])
		}
	}
	if got.Metadata["title"] != "Redis Pooling" {
		t.Errorf("metadata lost: %v", got.Metadata)
	}
	if !got.CreatedAt.Equal(entity.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, entity.CreatedAt)
	}
}

func TestEntityMUS_ZeroTimestamps(t *testing.T) {
	entity := Entity{Id: 1, Class: EntityClassConcept, Type: "technology"}

	buf := make([]byte, EntityMUS.Size(entity))
	EntityMUS.Marshal(entity, buf)

	got, _, err := EntityMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.CreatedAt.IsZero() || !got.UpdatedAt.IsZero() {
		t.Errorf("zero timestamps did not round-trip: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestRelationshipMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	rel := Relationship{
		Source:    DocumentID("/docs/redis.md"),
		Target:    ConceptID("redis", "technology"),
		Class:     RelationshipMentions,
		Metadata:  map[string]string{"origin": "classifier"},
		CreatedAt: now,
	}

	buf := make([]byte, RelationshipMUS.Size(rel))
	n := RelationshipMUS.Marshal(rel, buf)
	if n != len(buf) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(buf))
	}

	got, _, err := RelationshipMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Source != rel.Source || got.Target != rel.Target || got.Class != rel.Class {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if !got.CreatedAt.Equal(rel.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rel.CreatedAt)
	}
}

func TestIDMUS_RoundTrip(t *testing.T) {
	id := ConceptID("aria", "software")

	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)

	got, _, err := IDMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != id {
		t.Errorf("round trip mismatch: %d vs %d", got, id)
	}
}
