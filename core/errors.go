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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidCommand indicates a mutation command is missing required fields.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrMissingEntityId indicates an entity or payload has no ID.
	ErrMissingEntityId = errors.New("entity id is required")

	// ErrMissingEndpoints indicates a relationship lacks a source or target.
	ErrMissingEndpoints = errors.New("relationship source and target are required")

	// ErrSelfRelationship indicates a relationship where source equals target.
	ErrSelfRelationship = errors.New("relationship source and target must differ")

	// ErrEmptyClass indicates an entity or relationship without a class.
	ErrEmptyClass = errors.New("class cannot be empty")

	// ErrEmptyContent indicates a document entity without content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrNotRetryable marks content errors: failures caused by the input
	// itself rather than a transient fault. Retrying them will not self-heal.
	ErrNotRetryable = errors.New("error will not self-heal on retry")
)

// IsContentError reports whether err is a content error, i.e. one that
// retrying the same input cannot fix.
func IsContentError(err error) bool {
	return errors.Is(err, ErrNotRetryable)
}
