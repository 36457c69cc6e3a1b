package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/errors"
)

// Client implements the Provider interface over the HTTP APIs of the
// supported backends. Groq and OpenAI share the chat-completions wire
// format; Anthropic and Ollama each have their own.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a configured client. Credentials are resolved at
// construction time: a hosted provider without an API key (from config or
// the provider's environment variable) is a hard error, not a per-call one.
func NewClient(config Config) (*Client, error) {
	if config.Provider == "" {
		config.Provider = ProviderGroq
	}

	if config.Model == "" {
		config.Model = DefaultModel(config.Provider)
	}

	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	switch config.Provider {
	case ProviderGroq:
		if config.BaseURL == "" {
			config.BaseURL = "https://api.groq.com/openai/v1"
		}
	case ProviderOpenAI:
		if config.BaseURL == "" {
			config.BaseURL = "https://api.openai.com/v1"
		}
	case ProviderAnthropic:
		if config.BaseURL == "" {
			config.BaseURL = "https://api.anthropic.com/v1"
		}
	case ProviderOllama:
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434"
		}
	default:
		return nil, errors.Newf(errors.ErrTypeConfig, "unsupported provider: %s", config.Provider)
	}

	if config.APIKey == "" {
		config.APIKey = os.Getenv(apiKeyEnvVar(config.Provider))
	}

	if config.APIKey == "" && config.Provider != ProviderOllama {
		return nil, errors.NewAuthError(config.Provider, apiKeyEnvVar(config.Provider))
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// apiKeyEnvVar returns the environment variable holding the provider's key
func apiKeyEnvVar(provider string) string {
	switch provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Complete sends a system+user prompt pair and returns the completion text
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	var (
		text string
		err  error
	)

	switch c.config.Provider {
	case ProviderGroq, ProviderOpenAI:
		text, err = c.completeChat(ctx, system, user)
	case ProviderAnthropic:
		text, err = c.completeAnthropic(ctx, system, user)
	case ProviderOllama:
		text, err = c.completeOllama(ctx, system, user)
	default:
		return "", errors.Newf(errors.ErrTypeConfig, "unsupported provider: %s", c.config.Provider)
	}

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// Chat-completions API structures (Groq and OpenAI)
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// completeChat handles the OpenAI-compatible chat-completions endpoint
func (c *Client) completeChat(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: c.config.MaxTokens,
	}

	respBody, err := c.makeRequest(ctx, "/chat/completions", reqBody, map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	})
	if err != nil {
		return "", err
	}

	var response chatResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", errors.Wrapf(err, errors.ErrTypeLLM, "failed to parse %s response", c.config.Provider)
	}

	if response.Error != nil {
		return "", errors.Newf(errors.ErrTypeLLM, "%s API error: %s", c.config.Provider, response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", errors.Newf(errors.ErrTypeLLM, "no response from %s", c.config.Provider)
	}

	return response.Choices[0].Message.Content, nil
}

// Anthropic API structures
type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *apiError          `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// completeAnthropic handles Anthropic API calls
func (c *Client) completeAnthropic(ctx context.Context, system, user string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	respBody, err := c.makeRequest(ctx, "/messages", reqBody, map[string]string{
		"x-api-key":         c.config.APIKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var response anthropicResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", errors.Wrap(err, errors.ErrTypeLLM, "failed to parse Anthropic response")
	}

	if response.Error != nil {
		return "", errors.Newf(errors.ErrTypeLLM, "Anthropic API error: %s", response.Error.Message)
	}

	if len(response.Content) == 0 {
		return "", errors.New(errors.ErrTypeLLM, "no response from Anthropic")
	}

	return response.Content[0].Text, nil
}

// Ollama API structures
type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// completeOllama handles Ollama API calls
func (c *Client) completeOllama(ctx context.Context, system, user string) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.config.Model,
		System: system,
		Prompt: user,
		Stream: false,
	}

	respBody, err := c.makeRequest(ctx, "/api/generate", reqBody, nil)
	if err != nil {
		return "", err
	}

	var response ollamaResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", errors.Wrap(err, errors.ErrTypeLLM, "failed to parse Ollama response")
	}

	if response.Error != "" {
		return "", errors.Newf(errors.ErrTypeLLM, "Ollama API error: %s", response.Error)
	}

	return response.Response, nil
}

// makeRequest makes a JSON POST request to the configured backend
func (c *Client) makeRequest(ctx context.Context, endpoint string, reqBody interface{}, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeLLM, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeLLM, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeLLM, "failed to make request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeLLM, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrTypeLLM,
			"API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// String describes the configured backend for logging
func (c *Client) String() string {
	return fmt.Sprintf("%s/%s", c.config.Provider, c.config.Model)
}
