package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.ClassifierModel)
	assert.False(t, cfg.ValidationEnabled)
	assert.Equal(t, DefaultMaxPromptChars, cfg.MaxPromptChars)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://example.com:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithClassifierModel("gpt-4o-mini"),
		WithValidation(true),
		WithMaxPromptChars(4000),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://example.com:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://example.com:9100/v1", cfg.ClassifierHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
	assert.True(t, cfg.ValidationEnabled)
	assert.Equal(t, 4000, cfg.MaxPromptChars)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "adds v1 suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "strips trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "keeps existing v1", host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.ClassifierHost)
		})
	}
}

func TestConfig_Validate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing embedding host", mutate: func(c *Config) { c.EmbeddingHost = "" }},
		{name: "missing classifier host", mutate: func(c *Config) { c.ClassifierHost = "" }},
		{name: "missing embedding model", mutate: func(c *Config) { c.EmbeddingModel = "" }},
		{name: "missing classifier model", mutate: func(c *Config) { c.ClassifierModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_RestoresPromptCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPromptChars = -1

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultMaxPromptChars, cfg.MaxPromptChars)
}

func TestIsValidDocumentType(t *testing.T) {
	for _, label := range DocumentTypes {
		assert.True(t, IsValidDocumentType(label), label)
	}
	assert.False(t, IsValidDocumentType("Novel"))
	assert.False(t, IsValidDocumentType(""))
}
