package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/errors"
)

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{Provider: ProviderGroq, APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, ModelGroqDefault, client.config.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", client.config.BaseURL)
	assert.Equal(t, DefaultMaxTokens, client.config.MaxTokens)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	for _, provider := range []string{ProviderGroq, ProviderOpenAI, ProviderAnthropic} {
		_, err := NewClient(Config{Provider: provider})
		require.Error(t, err, provider)
		assert.True(t, errors.IsType(err, errors.ErrTypeAuth), provider)
	}
}

func TestNewClient_OllamaNeedsNoKey(t *testing.T) {
	client, err := NewClient(Config{Provider: ProviderOllama})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", client.config.BaseURL)
}

func TestNewClient_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	client, err := NewClient(Config{Provider: ProviderOpenAI})
	require.NoError(t, err)

	assert.Equal(t, "env-key", client.config.APIKey)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "bard", APIKey: "k"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestComplete_ChatCompletions(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := chatResponse{Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: "  SELECT 1  \n"}},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider:  ProviderGroq,
		Model:     "test-model",
		APIKey:    "test-key",
		BaseURL:   server.URL,
		MaxTokens: 256,
	})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "system prompt", "user question")
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1", text, "response text is whitespace-stripped")
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "user question", gotReq.Messages[1].Content)
}

func TestComplete_Anthropic(t *testing.T) {
	var gotReq anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := anthropicResponse{Content: []anthropicContent{
			{Type: "text", Text: "SELECT COUNT(*) FROM marts.fct_orders"},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider: ProviderAnthropic,
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "you are a data analyst", "count orders")
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM marts.fct_orders", text)
	assert.Equal(t, "you are a data analyst", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestComplete_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "sys", req.System)
		assert.Equal(t, "usr", req.Prompt)

		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "SELECT 1", Done: true})
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: ProviderOllama, BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)
}

func TestComplete_APIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: ProviderGroq, APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeLLM))
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, ModelGroqDefault, DefaultModel(ProviderGroq))
	assert.Equal(t, ModelOpenAIDefault, DefaultModel(ProviderOpenAI))
	assert.Equal(t, ModelAnthropicDefault, DefaultModel(ProviderAnthropic))
	assert.Equal(t, ModelOllamaDefault, DefaultModel(ProviderOllama))
	assert.Empty(t, DefaultModel("other"))
}
