// In file: internal/llm/client.go

// Package llm contains the gateway's language-model plumbing: the provider
// client interface, the Gemini implementation, the explainer that narrates
// computed results, and the redis-backed response cache.
package llm

import (
	"context"

	"github.com/econosage/gateway/internal/api"
)

// Role represents the originator of a message in a conversation.
// Using a defined type and constants prevents typos and improves code clarity.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds the parameters that control generation behavior.
type GenerationConfig struct {
	// The specific model to use (e.g. "gemini-1.5-flash").
	Model string
	// Controls randomness. A pointer distinguishes 0.0 from unset.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// Nucleus sampling parameter. A pointer distinguishes 0.0 from unset.
	TopP *float32
}

// GenerationResult holds the complete output of one LLM call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// Token usage statistics for the call.
	Usage api.Usage
}

// Client is the narrow interface the rest of the gateway depends on. Keeping
// the model behind this boundary keeps the deterministic parts of the
// pipeline (regex extraction, region resolution, normalization)
// unit-testable without a live model: tests inject a stub.
type Client interface {
	// Generate performs a standard, blocking request to the LLM. The caller
	// supplies the full conversation; a single-element slice is a fresh,
	// history-less exchange.
	Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error)
}
