// Package llm is the model-facing layer behind generated study material.
// Providers wrap the vendor SDKs; decorators add retries, timeouts and the
// request log.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one response per request.
type Provider interface {
	// Generate runs req. With a Schema set, the returned Content is JSON
	// that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, after friendly-name resolution.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema selects the provider's structured output mode. Nil asks for
	// free text, as explanations do.
	Schema *Schema

	MaxTokens int
	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema for structured output. Name doubles as the
// compile cache key and the schema name sent to providers, so it must be
// unique, e.g. "flashcards" or "quiz-questions".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a provider's answer.
type Response struct {
	// Content is validated JSON for structured requests and raw text
	// otherwise.
	Content json.RawMessage
	Usage   Usage
	// Model actually served the request; gateways may substitute.
	Model      string
	StopReason string
}

// Text returns free-text content. Some providers wrap plain answers in a
// JSON string; those are unquoted.
func (r *Response) Text() string {
	var quoted string
	if json.Unmarshal(r.Content, &quoted) == nil {
		return strings.TrimSpace(quoted)
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage counts the tokens of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
