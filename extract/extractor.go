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


package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Extractor converts one file into plain text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Extract reads the file at path and returns its plain text content.
	Extract(ctx context.Context, path string) (string, error)
}

// textExtensions are extensions handled by the plain-text extractor: text,
// notes, code, and config formats that are already plain text on disk.
var textExtensions = []string{
	".txt", ".md", ".markdown", ".rst", ".org",
	".go", ".py", ".js", ".ts", ".rs", ".java", ".c", ".h", ".cpp", ".rb", ".sh",
	".json", ".yaml", ".yml", ".toml", ".ini", ".env", ".sql", ".proto",
	".html", ".htm", ".css", ".xml", ".csv",
}

// Service dispatches extraction by file extension.
type Service struct {
	extractors map[string]Extractor
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithExtractor registers an extractor for the given extension (with dot,
// case-insensitive), replacing any existing registration.
func WithExtractor(ext string, extractor Extractor) ServiceOption {
	return func(s *Service) {
		s.extractors[strings.ToLower(ext)] = extractor
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewService creates an extraction service with the default extractor set:
// a plain-text reader for text/code extensions and the PDF extractor for
// .pdf. Options can add or replace extractors, e.g. to route .docx through
// an external converter.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		extractors: make(map[string]Extractor),
		logger:     slog.Default().With("component", "extract"),
	}

	plaintext := NewPlainTextExtractor()
	for _, ext := range textExtensions {
		s.extractors[ext] = plaintext
	}
	s.extractors[".pdf"] = NewPDFExtractor()

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Supported reports whether the service can extract text from path.
func (s *Service) Supported(path string) bool {
	_, ok := s.extractors[normalizeExt(path)]
	return ok
}

// Extract converts the file at path into plain text.
// Returns ErrUnsupportedFormat for unknown extensions and ErrEmptyText when
// the extractor yields nothing but whitespace.
func (s *Service) Extract(ctx context.Context, path string) (string, error) {
	ext := normalizeExt(path)

	extractor, ok := s.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyText, path)
	}

	s.logger.Debug("extracted text", "path", path, "chars", len(text))
	return text, nil
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
