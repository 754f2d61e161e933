package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CommandGenerator implements ai.CommandGenerator using OpenAI-compatible
// chat APIs.
type CommandGenerator struct {
	client llms.Model
	logger *slog.Logger
}

type commandEnvelope struct {
	Commands []struct {
		Action  string `json:"action"`
		Payload struct {
			Name       string `json:"name"`
			Type       string `json:"type"`
			Class      string `json:"class"`
			TargetName string `json:"target_name"`
			TargetType string `json:"target_type"`
		} `json:"payload"`
	} `json:"commands"`
}

// newCommandGenerator is an internal constructor that returns the concrete type.
func newCommandGenerator(config *ai.Config) (*CommandGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &CommandGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-commands"),
	}, nil
}

// NewCommandGenerator creates a new command generator using the provided
// configuration.
//
// Returns ai.CommandGenerator interface to enforce abstraction.
func NewCommandGenerator(config *ai.Config) (ai.CommandGenerator, error) {
	return newCommandGenerator(config)
}

// GenerateCommands turns a classification into an ordered command list.
// Commands naming entities that are not in the classification are dropped
// with a warning; the model is not trusted to stay inside its input.
func (g *CommandGenerator) GenerateCommands(ctx context.Context, classification *ai.Classification, documentID core.ID) ([]core.Command, error) {
	encoded, err := json.Marshal(map[string]any{
		"title":    classification.Title,
		"entities": entityMaps(classification.Entities),
	})
	if err != nil {
		return nil, err
	}

	user := fmt.Sprintf("Classification:\n%s", encoded)

	var envelope commandEnvelope
	if err := completeJSON(ctx, g.client, buildCommandPrompt(), user, &envelope, g.logger); err != nil {
		return nil, err
	}

	known := make(map[string]ai.ExtractedEntity, len(classification.Entities))
	for _, entity := range classification.Entities {
		known[core.NormalizeName(entity.Name)] = entity
	}

	commands := make([]core.Command, 0, len(envelope.Commands))
	for _, raw := range envelope.Commands {
		switch raw.Action {
		case string(core.ActionInsertEntity):
			name := strings.TrimSpace(raw.Payload.Name)
			entity, ok := known[core.NormalizeName(name)]
			if !ok {
				g.logger.Warn("dropping command for entity not in classification", "name", name)
				continue
			}
			commands = append(commands, core.Command{
				Action: core.ActionInsertEntity,
				Entity: &core.EntityPayload{
					Id:    core.ConceptID(entity.Name, entity.Type),
					Name:  entity.Name,
					Type:  entity.Type,
					Class: core.EntityClassConcept,
				},
			})
		case string(core.ActionInsertRelationship):
			name := strings.TrimSpace(raw.Payload.TargetName)
			entity, ok := known[core.NormalizeName(name)]
			if !ok {
				g.logger.Warn("dropping relationship for entity not in classification", "name", name)
				continue
			}
			class := strings.TrimSpace(raw.Payload.Class)
			if class == "" {
				class = core.RelationshipMentions
			}
			commands = append(commands, core.Command{
				Action: core.ActionInsertRelationship,
				Relationship: &core.RelationshipPayload{
					Source: documentID,
					Target: core.ConceptID(entity.Name, entity.Type),
					Class:  class,
				},
			})
		default:
			return nil, fmt.Errorf("%w: unknown command action %q", ai.ErrMalformedResponse, raw.Action)
		}
	}

	g.logger.Debug("generated commands",
		"returned", len(envelope.Commands),
		"accepted", len(commands))

	return commands, nil
}

func entityMaps(entities []ai.ExtractedEntity) []map[string]string {
	maps := make([]map[string]string, 0, len(entities))
	for _, entity := range entities {
		maps = append(maps, map[string]string{"name": entity.Name, "type": entity.Type})
	}
	return maps
}
