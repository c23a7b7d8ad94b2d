// Package advisor provides optional LLM-backed resolution hints for
// scheduling conflicts. Nothing in the board depends on it; the CLI wires
// it up on demand.
package advisor

import (
	"context"
	"fmt"
	"strings"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Supported providers.
const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio":
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
