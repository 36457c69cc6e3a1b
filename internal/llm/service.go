package llm

import (
	"context"
)

// Provider defines the interface for text completion backends
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config represents completion backend configuration
type Config struct {
	Provider  string `json:"provider"` // groq, openai, anthropic, ollama
	Model     string `json:"model"`
	APIKey    string `json:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// Provider constants for the supported backends
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Default models per provider
const (
	ModelGroqDefault      = "llama-3.3-70b-versatile"
	ModelOpenAIDefault    = "gpt-4o"
	ModelAnthropicDefault = "claude-sonnet-4-20250514"
	ModelOllamaDefault    = "llama3"
)

// DefaultMaxTokens bounds completion length when the caller doesn't set one
const DefaultMaxTokens = 1024

// DefaultModel returns the default model for a provider
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGroq:
		return ModelGroqDefault
	case ProviderOpenAI:
		return ModelOpenAIDefault
	case ProviderAnthropic:
		return ModelAnthropicDefault
	case ProviderOllama:
		return ModelOllamaDefault
	default:
		return ""
	}
}
