package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/loreweave/loreweave/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// validationSnippetChars caps how much source text accompanies the
// classification on a validation call.
const validationSnippetChars = 2000

// Validator implements ai.Validator using OpenAI-compatible chat APIs.
type Validator struct {
	client llms.Model
	logger *slog.Logger
}

type validationEnvelope struct {
	IsValid   bool   `json:"is_valid"`
	Reasoning string `json:"reasoning"`
}

// newValidator is an internal constructor that returns the concrete type.
func newValidator(config *ai.Config) (*Validator, error) {
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

	return &Validator{
		client: client,
		logger: slog.Default().With("component", "openai-validator"),
	}, nil
}

// NewValidator creates a new classification validator using the provided
// configuration.
//
// Returns ai.Validator interface to enforce abstraction.
func NewValidator(config *ai.Config) (ai.Validator, error) {
	return newValidator(config)
}

// Validate reviews a classification against a snippet of the source text.
func (v *Validator) Validate(ctx context.Context, snippet string, classification *ai.Classification) (*ai.ValidationResult, error) {
	entities := make([]map[string]string, 0, len(classification.Entities))
	for _, entity := range classification.Entities {
		entities = append(entities, map[string]string{"name": entity.Name, "type": entity.Type})
	}
	encoded, err := json.Marshal(map[string]any{
		"title":         classification.Title,
		"document_type": classification.DocumentType,
		"summary":       classification.Summary,
		"entities":      entities,
	})
	if err != nil {
		return nil, err
	}

	user := fmt.Sprintf("Source text snippet:\n%s\n\nClassification:\n%s",
		capPrompt(snippet, validationSnippetChars), encoded)

	var envelope validationEnvelope
	if err := completeJSON(ctx, v.client, buildValidationPrompt(), user, &envelope, v.logger); err != nil {
		return nil, err
	}

	v.logger.Debug("validated classification",
		"isValid", envelope.IsValid,
		"reasoning", envelope.Reasoning)

	return &ai.ValidationResult{
		IsValid:   envelope.IsValid,
		Reasoning: envelope.Reasoning,
	}, nil
}
