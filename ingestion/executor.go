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


package ingestion

import (
	"context"
	"log/slog"

	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

// Executor applies a document upsert plus a batch of generated mutation
// commands atomically. Either the full batch commits or none of it does.
type Executor struct {
	store  storage.GraphRepository
	logger *slog.Logger
}

// NewExecutor creates an executor over the given graph repository.
func NewExecutor(store storage.GraphRepository) (*Executor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Executor{
		store:  store,
		logger: slog.Default().With("component", "executor"),
	}, nil
}

// Execute upserts the document and applies commands inside one transaction.
// Commands missing required fields are skipped with a warning; a
// relationship that would close a cycle aborts the whole transaction, so a
// failed batch leaves the store exactly as it was.
func (e *Executor) Execute(ctx context.Context, document *core.Entity, commands []core.Command) error {
	return e.store.Update(ctx, func(tx storage.GraphTx) error {
		if err := tx.UpsertDocument(document); err != nil {
			return err
		}

		for i := range commands {
			cmd := &commands[i]
			if err := core.ValidateCommand(cmd); err != nil {
				e.logger.Warn("skipping malformed command",
					"action", cmd.Action, "err", err)
				continue
			}

			switch cmd.Action {
			case core.ActionInsertEntity:
				if err := e.applyInsertEntity(tx, cmd.Entity); err != nil {
					return err
				}
			case core.ActionInsertRelationship:
				if err := e.applyInsertRelationship(tx, cmd.Relationship); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (e *Executor) applyInsertEntity(tx storage.GraphTx, payload *core.EntityPayload) error {
	if payload.Id == 0 {
		e.logger.Warn("skipping entity command without id", "name", payload.Name)
		return nil
	}

	class := payload.Class
	if class == "" {
		class = core.EntityClassConcept
	}

	metadata := make(map[string]string, len(payload.Metadata)+1)
	for k, v := range payload.Metadata {
		metadata[k] = v
	}
	if payload.Name != "" {
		metadata["name"] = payload.Name
	}

	inserted, err := tx.InsertEntity(&core.Entity{
		Id:       payload.Id,
		Class:    class,
		Type:     payload.Type,
		Metadata: metadata,
	})
	if err != nil {
		return err
	}
	if !inserted {
		e.logger.Debug("entity already present", "id", payload.Id, "name", payload.Name)
	}
	return nil
}

func (e *Executor) applyInsertRelationship(tx storage.GraphTx, payload *core.RelationshipPayload) error {
	if payload.Source == 0 || payload.Target == 0 {
		e.logger.Warn("skipping relationship command without endpoints",
			"source", payload.Source, "target", payload.Target)
		return nil
	}

	class := payload.Class
	if class == "" {
		class = core.RelationshipMentions
	}

	inserted, err := tx.InsertRelationship(&core.Relationship{
		Source:   payload.Source,
		Target:   payload.Target,
		Class:    class,
		Metadata: payload.Metadata,
	})
	if err != nil {
		return err
	}
	if !inserted {
		e.logger.Debug("relationship already present",
			"source", payload.Source, "target", payload.Target, "class", class)
	}
	return nil
}
