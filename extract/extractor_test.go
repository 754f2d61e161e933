package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestService_Extract_PlainText(t *testing.T) {
	svc := NewService()
	path := writeFile(t, "notes.md", "Redis Connection Pooling notes mentioning Aria")

	text, err := svc.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Redis Connection Pooling")
}

func TestService_Extract_CodeFile(t *testing.T) {
	svc := NewService()
	path := writeFile(t, "main.go", "package main\n\nfunc main() {}\n")

	text, err := svc.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "package main")
}

func TestService_Extract_UnsupportedFormat(t *testing.T) {
	svc := NewService()
	path := writeFile(t, "image.webp", "not really an image")

	_, err := svc.Extract(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestService_Extract_EmptyTextFails(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "whitespace only", content: "   \n\t\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "empty.txt", tt.content)
			_, err := svc.Extract(context.Background(), path)
			assert.ErrorIs(t, err, ErrEmptyText)
		})
	}
}

func TestService_Extract_MissingFile(t *testing.T) {
	svc := NewService()

	_, err := svc.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestService_Supported(t *testing.T) {
	svc := NewService()

	assert.True(t, svc.Supported("/a/b/readme.MD"))
	assert.True(t, svc.Supported("report.pdf"))
	assert.False(t, svc.Supported("archive.tar.gz"))
	assert.False(t, svc.Supported("noext"))
}

func TestService_WithExtractor_Override(t *testing.T) {
	custom := NewPlainTextExtractor()
	svc := NewService(WithExtractor(".custom", custom))

	path := writeFile(t, "data.custom", "custom format content")
	text, err := svc.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "custom format content", text)
}

func TestCommandExtractor_CapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	extractor := NewCommandExtractor("cat")
	path := writeFile(t, "doc.txt", "converter output")

	text, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "converter output", text)
}

func TestCommandExtractor_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	extractor := NewCommandExtractor("sh", "-c", "echo boom >&2; exit 3")
	path := writeFile(t, "doc.txt", "irrelevant")

	_, err := extractor.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConverterFailed)
	assert.Contains(t, err.Error(), "boom")
}

func TestCommandExtractor_PathPlaceholder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	path := writeFile(t, "doc.txt", "placeholder works")
	extractor := NewCommandExtractor("sh", "-c", "cat {path}")

	text, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "placeholder works", text)
}
