package mock

import (
	"context"

	"github.com/loreweave/loreweave/ai"
)

// MockValidator is a test double for ai.Validator.
// It allows custom behavior injection via function fields.
type MockValidator struct {
	// ValidateFunc is called by Validate if set.
	// If nil, every classification is accepted.
	ValidateFunc func(ctx context.Context, snippet string, classification *ai.Classification) (*ai.ValidationResult, error)

	callCount int
}

// NewMockValidator creates a mock validator that accepts everything by default.
func NewMockValidator() *MockValidator {
	return &MockValidator{}
}

// Validate accepts the classification unless a custom function rejects it.
func (m *MockValidator) Validate(ctx context.Context, snippet string, classification *ai.Classification) (*ai.ValidationResult, error) {
	m.callCount++

	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, snippet, classification)
	}

	return &ai.ValidationResult{IsValid: true, Reasoning: "mock validator accepts everything"}, nil
}

// CallCount returns the number of times Validate was called.
func (m *MockValidator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockValidator) Reset() {
	m.callCount = 0
	m.ValidateFunc = nil
}
