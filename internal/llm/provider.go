// Package llm wraps the LLM providers used to judge curriculum alignment
// and generate questions. All consumers talk to the Provider interface;
// structured output is requested by attaching a JSON schema to the request
// and every response is validated against it before being returned.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single abstraction over the configured LLM backend.
type Provider interface {
	// Generate sends a prompt and returns the model's output. When the
	// request carries a Schema, the provider uses its native structured
	// output mechanism and the returned Content is schema-validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider targets.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Judging and generation calls are
	// single-turn, so this is almost always one user message.
	Messages []Message

	// Schema, when set, is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0,1]. Judging runs at 0 for reproducibility;
	// generation runs slightly warmer.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (kebab-case, e.g. "sequence-ratings").
	// Used as the schema name for OpenAI structured output and as the
	// cache key for compiled validators.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated output. Validated JSON when the request
	// carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID. Names
// not in the map pass through, so exact model IDs always work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
