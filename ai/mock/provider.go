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


package mock

import "github.com/loreweave/loreweave/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock classifier, validator, command generator, and embedder
// instances.
type MockProvider struct {
	classifier *MockClassifier
	validator  *MockValidator
	generator  *MockCommandGenerator
	embedder   *MockEmbedder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use the GetMockXxx accessors for concrete types in test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		classifier: NewMockClassifier(),
		validator:  NewMockValidator(),
		generator:  NewMockCommandGenerator(),
		embedder:   NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(classifier *MockClassifier, validator *MockValidator, generator *MockCommandGenerator, embedder *MockEmbedder) ai.Provider {
	return &MockProvider{
		classifier: classifier,
		validator:  validator,
		generator:  generator,
		embedder:   embedder,
	}
}

// Classifier returns the mock classifier.
func (p *MockProvider) Classifier() ai.Classifier {
	return p.classifier
}

// Validator returns the mock validator.
func (p *MockProvider) Validator() ai.Validator {
	return p.validator
}

// CommandGenerator returns the mock command generator.
func (p *MockProvider) CommandGenerator() ai.CommandGenerator {
	return p.generator
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}

// GetMockValidator returns the underlying mock validator for test assertions.
func (p *MockProvider) GetMockValidator() *MockValidator {
	return p.validator
}

// GetMockCommandGenerator returns the underlying mock command generator for
// test assertions.
func (p *MockProvider) GetMockCommandGenerator() *MockCommandGenerator {
	return p.generator
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}
