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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loreweave/loreweave/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Classifier implements ai.Classifier using OpenAI-compatible chat APIs.
type Classifier struct {
	client         llms.Model
	maxPromptChars int
	logger         *slog.Logger
}

// classificationEnvelope matches the JSON shape the model is instructed to emit.
type classificationEnvelope struct {
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	Summary      string `json:"summary"`
	Entities     []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"entities"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client:         client,
		maxPromptChars: config.MaxPromptChars,
		logger:         slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new document classifier using the provided
// configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify names and classifies a document from its extracted text.
// The text is capped to a bounded prefix before it reaches the model, and
// the decoded response is validated against the declared schema shape.
func (c *Classifier) Classify(ctx context.Context, text string, meta ai.FileMeta) (*ai.Classification, error) {
	prompt := capPrompt(text, c.maxPromptChars)

	user := fmt.Sprintf("Filename: %s\nExtension: %s\n\nDocument text:\n%s",
		meta.Name, meta.Extension, prompt)

	var envelope classificationEnvelope
	if err := completeJSON(ctx, c.client, buildClassificationPrompt(), user, &envelope, c.logger); err != nil {
		return nil, err
	}

	classification, err := envelope.toClassification()
	if err != nil {
		c.logger.Warn("classification failed schema validation", "err", err, "file", meta.Name)
		return nil, err
	}

	c.logger.Debug("classified document",
		"file", meta.Name,
		"documentType", classification.DocumentType,
		"entities", len(classification.Entities))

	return classification, nil
}

// toClassification validates the envelope against the schema contract and
// converts it to the strongly typed result.
func (e *classificationEnvelope) toClassification() (*ai.Classification, error) {
	if strings.TrimSpace(e.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ai.ErrMalformedResponse)
	}
	if !ai.IsValidDocumentType(e.DocumentType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ai.ErrMalformedResponse, e.DocumentType)
	}
	if strings.TrimSpace(e.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ai.ErrMalformedResponse)
	}

	entities := make([]ai.ExtractedEntity, 0, len(e.Entities))
	for _, entity := range e.Entities {
		name := strings.TrimSpace(entity.Name)
		entityType := strings.TrimSpace(entity.Type)
		if name == "" || entityType == "" {
			return nil, fmt.Errorf("%w: entity with empty name or type", ai.ErrMalformedResponse)
		}
		entities = append(entities, ai.ExtractedEntity{Name: name, Type: entityType})
	}

	return &ai.Classification{
		Title:        strings.TrimSpace(e.Title),
		DocumentType: e.DocumentType,
		Summary:      strings.TrimSpace(e.Summary),
		Entities:     entities,
	}, nil
}
