package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestDocumentID_Stable(t *testing.T) {
	id1 := DocumentID("/notes/redis-pooling.md")
	id2 := DocumentID("/notes/redis-pooling.md")

	if id1 != id2 {
		t.Errorf("DocumentID() not stable for same path: %d vs %d", id1, id2)
	}

	other := DocumentID("/notes/other.md")
	if id1 == other {
		t.Errorf("DocumentID() produced same ID for different paths")
	}
}

func TestConceptID_Normalized(t *testing.T) {
	tests := []struct {
		name  string
		a     [2]string // name, type
		b     [2]string
		equal bool
	}{
		{
			name:  "case insensitive",
			a:     [2]string{"Redis", "technology"},
			b:     [2]string{"redis", "Technology"},
			equal: true,
		},
		{
			name:  "whitespace collapsed",
			a:     [2]string{"connection  pooling", "concept"},
			b:     [2]string{"connection pooling", "concept"},
			equal: true,
		},
		{
			name:  "different names differ",
			a:     [2]string{"redis", "technology"},
			b:     [2]string{"postgres", "technology"},
			equal: false,
		},
		{
			name:  "same name different type differs",
			a:     [2]string{"go", "language"},
			b:     [2]string{"go", "game"},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idA := ConceptID(tt.a[0], tt.a[1])
			idB := ConceptID(tt.b[0], tt.b[1])

			if (idA == idB) != tt.equal {
				t.Errorf("ConceptID(%v) == ConceptID(%v): got %v, want %v", tt.a, tt.b, idA == idB, tt.equal)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Redis", "redis"},
		{"  Connection   Pooling ", "connection pooling"},
		{"already normal", "already normal"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntity_IsDocument(t *testing.T) {
	doc := &Entity{Id: 1, Class: EntityClassDocument}
	concept := &Entity{Id: 2, Class: EntityClassConcept}

	if !doc.IsDocument() {
		t.Error("document entity reported IsDocument() = false")
	}
	if concept.IsDocument() {
		t.Error("concept entity reported IsDocument() = true")
	}
}
