package storage

import (
	"fmt"

	"github.com/loreweave/loreweave/core"
)

// MarshalEntity encodes an entity into its binary storage representation.
func MarshalEntity(entity *core.Entity) ([]byte, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: nil entity", ErrSerializationFailed)
	}
	buf := make([]byte, core.EntityMUS.Size(*entity))
	core.EntityMUS.Marshal(*entity, buf)
	return buf, nil
}

// UnmarshalEntity decodes an entity from its binary storage representation.
func UnmarshalEntity(data []byte) (*core.Entity, error) {
	entity, _, err := core.EntityMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: entity: %v", ErrSerializationFailed, err)
	}
	return &entity, nil
}

// MarshalRelationship encodes a relationship into its binary storage
// representation.
func MarshalRelationship(rel *core.Relationship) ([]byte, error) {
	if rel == nil {
		return nil, fmt.Errorf("%w: nil relationship", ErrSerializationFailed)
	}
	buf := make([]byte, core.RelationshipMUS.Size(*rel))
	core.RelationshipMUS.Marshal(*rel, buf)
	return buf, nil
}

// UnmarshalRelationship decodes a relationship from its binary storage
// representation.
func UnmarshalRelationship(data []byte) (*core.Relationship, error) {
	rel, _, err := core.RelationshipMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: relationship: %v", ErrSerializationFailed, err)
	}
	return &rel, nil
}
