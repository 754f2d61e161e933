package mock

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/loreweave/loreweave/ai"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default heuristic extraction.
	ClassifyFunc func(ctx context.Context, text string, meta ai.FileMeta) (*ai.Classification, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify produces a deterministic classification: the title derives from
// the filename, the summary is a text prefix, and entities are the
// capitalized words of the text.
func (m *MockClassifier) Classify(ctx context.Context, text string, meta ai.FileMeta) (*ai.Classification, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text, meta)
	}

	title := strings.TrimSuffix(meta.Name, filepath.Ext(meta.Name))
	if title == "" {
		title = "Untitled"
	}

	summary := text
	if len(summary) > 200 {
		summary = summary[:200]
	}
	if strings.TrimSpace(summary) == "" {
		summary = title
	}

	return &ai.Classification{
		Title:        title,
		DocumentType: "Other",
		Summary:      summary,
		Entities:     capitalizedEntities(text, 5),
	}, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}

// capitalizedEntities extracts up to max distinct capitalized words from
// text as mock entities.
func capitalizedEntities(text string, max int) []ai.ExtractedEntity {
	seen := make(map[string]bool)
	entities := make([]ai.ExtractedEntity, 0, max)

	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) || len(runes) < 2 {
			continue
		}

		key := strings.ToLower(word)
		if seen[key] {
			continue
		}
		seen[key] = true

		entities = append(entities, ai.ExtractedEntity{Name: word, Type: "concept"})
		if len(entities) >= max {
			break
		}
	}

	return entities
}
