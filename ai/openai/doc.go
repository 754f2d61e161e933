// Package openai implements the ai interfaces against OpenAI-compatible
// chat and embedding APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// All structured calls run at temperature 0 in JSON mode, strip markdown
// code fences, attempt lightweight JSON repair, and validate the decoded
// shape before returning it. Malformed output surfaces as
// ai.ErrMalformedResponse after a bounded number of parse attempts.
package openai
