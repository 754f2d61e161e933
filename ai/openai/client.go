package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/loreweave/loreweave/ai"
	"github.com/tmc/langchaingo/llms"
)

// parseAttempts bounds how often a structured call is retried when the model
// returns unparseable JSON. Transport errors are not retried here; that is
// the job queue's concern.
const parseAttempts = 3

// completeJSON runs one schema-constrained chat completion and decodes the
// response into out. The call is made deterministic: temperature 0, JSON
// mode. Markdown fences are stripped and common JSON damage repaired before
// decoding; persistent parse failures surface as ai.ErrMalformedResponse.
func completeJSON(ctx context.Context, model llms.Model, system, user string, out any, logger *slog.Logger) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		response, err := model.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			logger.Warn("no choices returned from model")
			return ai.ErrEmptyResponse
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return fmt.Errorf("%w: %v", ai.ErrMalformedResponse, lastErr)
}
