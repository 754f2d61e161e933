package extract

import (
	"context"
	"os"
)

// PlainTextExtractor reads files that are already plain text.
type PlainTextExtractor struct{}

var _ Extractor = (*PlainTextExtractor)(nil)

// NewPlainTextExtractor creates a plain-text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract reads the whole file as UTF-8 text.
func (e *PlainTextExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
