package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandExtractor runs an external converter program to extract text,
// e.g. pdftotext or pandoc for formats no pure-Go library covers.
// The converter is expected to write the extracted text to standard output
// and exit zero; anything else is a converter failure with captured stderr.
type CommandExtractor struct {
	command string
	args    []string
	logger  *slog.Logger
}

var _ Extractor = (*CommandExtractor)(nil)

// NewCommandExtractor creates an extractor that invokes command with args,
// substituting "{path}" in args with the file path. If no argument contains
// the placeholder, the path is appended as the final argument.
//
// Example:
//
//	NewCommandExtractor("pandoc", "--to=plain", "{path}")
func NewCommandExtractor(command string, args ...string) *CommandExtractor {
	return &CommandExtractor{
		command: command,
		args:    args,
		logger:  slog.Default().With("component", "extract-exec", "converter", command),
	}
}

// Extract runs the converter synchronously and returns its standard output.
func (e *CommandExtractor) Extract(ctx context.Context, path string) (string, error) {
	args := make([]string, 0, len(e.args)+1)
	substituted := false
	for _, arg := range e.args {
		if strings.Contains(arg, "{path}") {
			arg = strings.ReplaceAll(arg, "{path}", path)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, path)
	}

	cmd := exec.CommandContext(ctx, e.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.logger.Warn("converter exited non-zero",
				"path", path,
				"exitCode", exitErr.ExitCode(),
				"stderr", truncateForLog(stderr.String()))
			return "", fmt.Errorf("%w: %s exited %d: %s",
				ErrConverterFailed, e.command, exitErr.ExitCode(), truncateForLog(stderr.String()))
		}
		return "", fmt.Errorf("%w: running %s: %v", ErrConverterFailed, e.command, err)
	}

	return stdout.String(), nil
}

func truncateForLog(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
