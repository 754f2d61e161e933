package mock

import (
	"context"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/core"
)

// MockCommandGenerator is a test double for ai.CommandGenerator.
// It allows custom behavior injection via function fields.
type MockCommandGenerator struct {
	// GenerateCommandsFunc is called by GenerateCommands if set.
	// If nil, generates the canonical command shape directly from the
	// classification.
	GenerateCommandsFunc func(ctx context.Context, classification *ai.Classification, documentID core.ID) ([]core.Command, error)

	callCount int
}

// NewMockCommandGenerator creates a mock command generator with default behavior.
func NewMockCommandGenerator() *MockCommandGenerator {
	return &MockCommandGenerator{}
}

// GenerateCommands emits, for each classified entity, one INSERT_ENTITY and
// one MENTIONS INSERT_RELATIONSHIP — the same shape the real generator is
// prompted to produce.
func (m *MockCommandGenerator) GenerateCommands(ctx context.Context, classification *ai.Classification, documentID core.ID) ([]core.Command, error) {
	m.callCount++

	if m.GenerateCommandsFunc != nil {
		return m.GenerateCommandsFunc(ctx, classification, documentID)
	}

	commands := make([]core.Command, 0, len(classification.Entities)*2)
	for _, entity := range classification.Entities {
		conceptID := core.ConceptID(entity.Name, entity.Type)
		commands = append(commands,
			core.Command{
				Action: core.ActionInsertEntity,
				Entity: &core.EntityPayload{
					Id:    conceptID,
					Name:  entity.Name,
					Type:  entity.Type,
					Class: core.EntityClassConcept,
				},
			},
			core.Command{
				Action: core.ActionInsertRelationship,
				Relationship: &core.RelationshipPayload{
					Source: documentID,
					Target: conceptID,
					Class:  core.RelationshipMentions,
				},
			},
		)
	}

	return commands, nil
}

// CallCount returns the number of times GenerateCommands was called.
func (m *MockCommandGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockCommandGenerator) Reset() {
	m.callCount = 0
	m.GenerateCommandsFunc = nil
}
