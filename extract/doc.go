// Package extract implements the text-extraction boundary of the ingestion
// pipeline: given a file path, produce plain text or fail with a distinct
// extraction error.
//
// A Service dispatches on file extension to registered extractors: a
// plain-text reader for text and code files, a pure-Go PDF extractor, and a
// subprocess extractor that shells out to an external converter program with
// captured output and explicit exit-code checking.
//
// Empty or whitespace-only output is an extraction failure, never silently
// accepted.
package extract
