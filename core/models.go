package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for graph entities.
// It is derived deterministically from content so that re-ingesting the
// same source produces the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentID derives the entity ID for a document from its source path.
func DocumentID(path string) ID {
	return IDFromContent("document:" + path)
}

// ConceptID derives the entity ID for a concept from its normalized
// (type, name) tuple.
func ConceptID(name, conceptType string) ID {
	return IDFromContent("concept:(" + NormalizeName(conceptType) + "," + NormalizeName(name) + ")")
}

// NormalizeName lowercases and collapses whitespace in a concept name or type.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// EntityClass partitions entities into documents and concepts.
type EntityClass string

const (
	// EntityClassDocument is an ingested source document. Documents carry
	// content and an embedding and are mutable on re-ingestion.
	EntityClassDocument EntityClass = "Document"

	// EntityClassConcept is a named thing mentioned by documents. Concepts
	// are stable once created; the first writer wins.
	EntityClassConcept EntityClass = "Concept"
)

// RelationshipMentions is the edge class linking a document to a concept
// it mentions.
const RelationshipMentions = "MENTIONS"

// Entity is a node in the knowledge graph, either a Document or a Concept.
type Entity struct {
	Id        ID
	Class     EntityClass
	Type      string
	Content   string
	Embedding []float32
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDocument reports whether the entity is a document.
func (e *Entity) IsDocument() bool {
	return e.Class == EntityClassDocument
}

// Relationship is a directed, classed edge between two entities.
// The triple (Source, Target, Class) is unique, and the graph formed by all
// relationships must remain acyclic.
type Relationship struct {
	Source    ID
	Target    ID
	Class     string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Direction indicates which end of a relationship an entity occupies.
type Direction int

const (
	// DirectionOutgoing means the queried entity is the relationship source.
	DirectionOutgoing Direction = iota + 1
	// DirectionIncoming means the queried entity is the relationship target.
	DirectionIncoming
)

// Neighbor is a one-hop neighborhood entry: a relationship touching the
// queried entity together with the entity on the other end.
type Neighbor struct {
	Relationship *Relationship
	Entity       *Entity
	Direction    Direction
}

// CommandAction identifies the kind of a generated graph mutation command.
type CommandAction string

const (
	// ActionInsertEntity inserts a concept entity if absent.
	ActionInsertEntity CommandAction = "INSERT_ENTITY"
	// ActionInsertRelationship inserts a relationship if absent.
	ActionInsertRelationship CommandAction = "INSERT_RELATIONSHIP"
)

// Command is a single graph mutation generated from a classification.
// Exactly one of Entity or Relationship is set, matching Action.
type Command struct {
	Action       CommandAction
	Entity       *EntityPayload
	Relationship *RelationshipPayload
}

// EntityPayload is the payload of an INSERT_ENTITY command.
type EntityPayload struct {
	Id       ID
	Name     string
	Type     string
	Class    EntityClass
	Metadata map[string]string
}

// RelationshipPayload is the payload of an INSERT_RELATIONSHIP command.
type RelationshipPayload struct {
	Source   ID
	Target   ID
	Class    string
	Metadata map[string]string
}

// MatchType records which retrieval signals surfaced a search result.
type MatchType string

const (
	// MatchTypeSemantic means the document appeared only in the vector ranking.
	MatchTypeSemantic MatchType = "semantic"
	// MatchTypeLexical means the document appeared only in the lexical ranking.
	MatchTypeLexical MatchType = "lexical"
	// MatchTypeBoth means the document appeared in both rankings.
	MatchTypeBoth MatchType = "both"
)

// SearchResult is a ranked hybrid-search hit.
type SearchResult struct {
	DocumentId ID
	Content    string
	Metadata   map[string]string
	Score      float64
	MatchType  MatchType
}

// RankedDocument is a document position in a single ranking source.
type RankedDocument struct {
	DocumentId ID
	Rank       int // 1-indexed
	Score      float32
}
