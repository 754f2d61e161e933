package core

import (
	"errors"
	"testing"
)

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name: "valid document",
			entity: &Entity{
				Id:      DocumentID("/notes/a.md"),
				Class:   EntityClassDocument,
				Type:    "TechSpec",
				Content: "some extracted text",
			},
			wantErr: nil,
		},
		{
			name: "valid concept without content",
			entity: &Entity{
				Id:    ConceptID("redis", "technology"),
				Class: EntityClassConcept,
				Type:  "technology",
			},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name: "missing id",
			entity: &Entity{
				Class:   EntityClassDocument,
				Content: "text",
			},
			wantErr: ErrMissingEntityId,
		},
		{
			name: "unknown class",
			entity: &Entity{
				Id:    1,
				Class: "Widget",
			},
			wantErr: ErrInvalidEntity,
		},
		{
			name: "document without content",
			entity: &Entity{
				Id:    1,
				Class: EntityClassDocument,
			},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rel     *Relationship
		wantErr error
	}{
		{
			name:    "valid relationship",
			rel:     &Relationship{Source: 1, Target: 2, Class: RelationshipMentions},
			wantErr: nil,
		},
		{
			name:    "nil relationship",
			rel:     nil,
			wantErr: ErrInvalidRelationship,
		},
		{
			name:    "missing source",
			rel:     &Relationship{Target: 2, Class: RelationshipMentions},
			wantErr: ErrMissingEndpoints,
		},
		{
			name:    "missing target",
			rel:     &Relationship{Source: 1, Class: RelationshipMentions},
			wantErr: ErrMissingEndpoints,
		},
		{
			name:    "self relationship",
			rel:     &Relationship{Source: 7, Target: 7, Class: RelationshipMentions},
			wantErr: ErrSelfRelationship,
		},
		{
			name:    "empty class",
			rel:     &Relationship{Source: 1, Target: 2},
			wantErr: ErrEmptyClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationship(tt.rel)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRelationship() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRelationship() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *Command
		wantErr error
	}{
		{
			name: "valid insert entity",
			cmd: &Command{
				Action: ActionInsertEntity,
				Entity: &EntityPayload{Id: 1, Name: "redis", Type: "technology", Class: EntityClassConcept},
			},
			wantErr: nil,
		},
		{
			name: "valid insert relationship",
			cmd: &Command{
				Action:       ActionInsertRelationship,
				Relationship: &RelationshipPayload{Source: 1, Target: 2, Class: RelationshipMentions},
			},
			wantErr: nil,
		},
		{
			name:    "nil command",
			cmd:     nil,
			wantErr: ErrInvalidCommand,
		},
		{
			name:    "insert entity without payload",
			cmd:     &Command{Action: ActionInsertEntity},
			wantErr: ErrInvalidCommand,
		},
		{
			name: "insert entity without id",
			cmd: &Command{
				Action: ActionInsertEntity,
				Entity: &EntityPayload{Name: "redis"},
			},
			wantErr: ErrMissingEntityId,
		},
		{
			name:    "insert relationship without payload",
			cmd:     &Command{Action: ActionInsertRelationship},
			wantErr: ErrInvalidCommand,
		},
		{
			name: "insert relationship without endpoints",
			cmd: &Command{
				Action:       ActionInsertRelationship,
				Relationship: &RelationshipPayload{Class: RelationshipMentions},
			},
			wantErr: ErrMissingEndpoints,
		},
		{
			name: "insert relationship to self",
			cmd: &Command{
				Action:       ActionInsertRelationship,
				Relationship: &RelationshipPayload{Source: 3, Target: 3, Class: RelationshipMentions},
			},
			wantErr: ErrSelfRelationship,
		},
		{
			name:    "unknown action",
			cmd:     &Command{Action: "DELETE_EVERYTHING"},
			wantErr: ErrInvalidCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.cmd)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCommand() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCommand() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsContentError(t *testing.T) {
	if IsContentError(errors.New("plain")) {
		t.Error("plain error reported as content error")
	}
	wrapped := errors.Join(ErrNotRetryable, errors.New("validation rejected entity"))
	if !IsContentError(wrapped) {
		t.Error("wrapped ErrNotRetryable not detected")
	}
}
