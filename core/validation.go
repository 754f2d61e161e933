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


package core

import "fmt"

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Id must be non-zero
//   - Class must be Document or Concept
//   - Document entities must have content
//
// NOT validated (populated later in the pipeline):
//   - Embedding (empty until the embed stage runs)
//   - Metadata
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrMissingEntityId)
	}

	if entity.Class != EntityClassDocument && entity.Class != EntityClassConcept {
		return fmt.Errorf("%w: unknown class %q", ErrInvalidEntity, entity.Class)
	}

	if entity.Class == EntityClassDocument && entity.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyContent)
	}

	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - Source and Target must be non-zero
//   - Source must differ from Target
//   - Class must not be empty
//
// Acyclicity is NOT validated here; it is a write-time constraint enforced
// by the graph store against the current edge set.
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.Source == 0 || rel.Target == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrMissingEndpoints)
	}

	if rel.Source == rel.Target {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrSelfRelationship)
	}

	if rel.Class == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrEmptyClass)
	}

	return nil
}

// ValidateCommand checks that a mutation command carries the payload its
// action requires. Commands failing this check are skipped by the executor
// with a warning rather than failing the transaction.
func ValidateCommand(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: command is nil", ErrInvalidCommand)
	}

	switch cmd.Action {
	case ActionInsertEntity:
		if cmd.Entity == nil {
			return fmt.Errorf("%w: INSERT_ENTITY without entity payload", ErrInvalidCommand)
		}
		if cmd.Entity.Id == 0 {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, ErrMissingEntityId)
		}
	case ActionInsertRelationship:
		if cmd.Relationship == nil {
			return fmt.Errorf("%w: INSERT_RELATIONSHIP without relationship payload", ErrInvalidCommand)
		}
		if cmd.Relationship.Source == 0 || cmd.Relationship.Target == 0 {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, ErrMissingEndpoints)
		}
		if cmd.Relationship.Source == cmd.Relationship.Target {
			return fmt.Errorf("%w: %w", ErrInvalidCommand, ErrSelfRelationship)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, cmd.Action)
	}

	return nil
}
