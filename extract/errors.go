package extract

import "errors"

var (
	// ErrUnsupportedFormat indicates no extractor is registered for the
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyText indicates extraction produced no usable text.
	ErrEmptyText = errors.New("extraction produced empty text")

	// ErrConverterFailed indicates an external converter subprocess exited
	// with a non-zero status.
	ErrConverterFailed = errors.New("converter subprocess failed")
)
