package openai

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// maxPromptTokens is a hard ceiling on tokens handed to the classifier,
// applied after the character cap. Keeps small local models inside their
// context window even for dense non-ASCII text.
const maxPromptTokens = 6000

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// capPrompt truncates text to at most maxChars characters, cutting on a
// rune boundary, then enforces the token ceiling.
func capPrompt(text string, maxChars int) string {
	if maxChars > 0 {
		runes := []rune(text)
		if len(runes) > maxChars {
			text = string(runes[:maxChars])
		}
	}
	return capTokens(text, maxPromptTokens)
}

// capTokens truncates text to at most maxTokens tokens of the cl100k_base
// encoding. If the encoding cannot be loaded (offline environments), the
// character cap alone has to do.
func capTokens(text string, maxTokens int) string {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return text
	}

	tokens := encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return encoding.Decode(tokens[:maxTokens])
}

// stripCodeFences removes a surrounding markdown code fence from a model
// response, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
