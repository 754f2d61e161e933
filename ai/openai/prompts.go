package openai

import (
	"fmt"
	"strings"

	"github.com/loreweave/loreweave/ai"
)

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": {
      "type": "string",
      "minLength": 1
    },
    "document_type": {
      "type": "string",
      "enum": [%s]
    },
    "summary": {
      "type": "string",
      "minLength": 1
    },
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string",
            "minLength": 1
          },
          "type": {
            "type": "string",
            "minLength": 1
          }
        },
        "required": ["name", "type"],
        "additionalProperties": false
      }
    }
  },
  "required": ["title", "document_type", "summary", "entities"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `You classify documents for a knowledge graph. Given the text of a document and
its filename, produce a title, a document type, a short summary, and the named
entities the document mentions.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- document_type must be exactly one of: %s.
- The summary is 2-4 sentences describing what the document is about. It is used for
  semantic search, so prefer concrete subject matter over generic phrasing.
- Entities are concrete named things the text mentions: technologies, products, projects,
  people, organizations. Include entities clearly implied by the filename or file
  extension (a .go file mentions Go). Do not invent entities with no basis in the input.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no
  extraneous text outside the object.

Example:
Input filename: redis-pooling.md
Input text: "Notes on Redis connection pooling strategies used by the Aria service."
Output:
{
  "title": "Redis Connection Pooling Notes",
  "document_type": "Other",
  "summary": "Notes describing connection pooling strategies for Redis as used by the Aria service.",
  "entities": [
    {"name": "Redis", "type": "technology"},
    {"name": "Aria", "type": "software"}
  ]
}`

const validationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "is_valid": {
      "type": "boolean"
    },
    "reasoning": {
      "type": "string"
    }
  },
  "required": ["is_valid", "reasoning"],
  "additionalProperties": false
}`

const validationPromptTemplate = `You review a document classification against a snippet of the source text.
Decide whether the classification's entities are grounded in the input.

Output ONLY valid JSON following this schema, with no text outside the object:

%s

Policy:
- Accept entities derivable by reasonable inference: a language or framework implied
  by a file extension or import statement, a name derived from the filename.
- Reject ONLY entities that are fabricated or contradicted by the text.
- A classification with zero entities is valid.
- Explain the verdict in one or two sentences in "reasoning".`

const commandResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "commands": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "action": {
            "type": "string",
            "enum": ["INSERT_ENTITY", "INSERT_RELATIONSHIP"]
          },
          "payload": {
            "type": "object"
          }
        },
        "required": ["action", "payload"],
        "additionalProperties": false
      }
    }
  },
  "required": ["commands"],
  "additionalProperties": false
}`

const commandPromptTemplate = `You translate a document classification into graph mutation commands.

Output ONLY valid JSON following this schema, with no text outside the object:

%s

For EACH entity in the classification emit exactly two commands, in order:
1. {"action": "INSERT_ENTITY", "payload": {"name": "<entity name>", "type": "<entity type>"}}
2. {"action": "INSERT_RELATIONSHIP", "payload": {"class": "MENTIONS", "target_name": "<entity name>", "target_type": "<entity type>"}}

Do not emit commands for the document itself; it is upserted separately.
Do not invent entities that are not in the classification.
If the classification has no entities, return "commands": [].`

// buildClassificationPrompt creates the classifier system prompt with the
// schema and document type taxonomy embedded.
func buildClassificationPrompt() string {
	quoted := make([]string, len(ai.DocumentTypes))
	for i, t := range ai.DocumentTypes {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	schema := fmt.Sprintf(classificationResponseSchema, strings.Join(quoted, ", "))
	return fmt.Sprintf(classificationPromptTemplate, schema, strings.Join(ai.DocumentTypes, ", "))
}

// buildValidationPrompt creates the validator system prompt.
func buildValidationPrompt() string {
	return fmt.Sprintf(validationPromptTemplate, validationResponseSchema)
}

// buildCommandPrompt creates the command generator system prompt.
func buildCommandPrompt() string {
	return fmt.Sprintf(commandPromptTemplate, commandResponseSchema)
}
