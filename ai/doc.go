// Package ai defines the language-model boundary used by the ingestion
// pipeline and the search engine.
//
// Four capabilities are exposed as interfaces: document classification,
// classification validation, mutation command generation, and text
// embedding. Implementations live in subpackages (openai for real
// OpenAI-compatible services, mock for tests); this package holds only the
// interfaces, the strongly typed result structures, and the shared
// configuration.
//
// All classification, validation, and command-generation calls are
// schema-constrained and made at minimal temperature so repeated calls on
// the same input are as deterministic as the backing service allows.
package ai
