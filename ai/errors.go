package ai

import (
	"errors"
	"fmt"

	"github.com/loreweave/loreweave/core"
)

var (
	// ErrMalformedResponse indicates the model returned output that could
	// not be parsed or that failed schema validation.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrValidationRejected indicates the validation stage judged the
	// classification to contain fabricated or contradicted entities.
	// This is a content error: retrying the same input will not self-heal.
	ErrValidationRejected = fmt.Errorf("classification rejected by validator: %w", core.ErrNotRetryable)
)
