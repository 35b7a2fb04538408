// Package completion provides a pluggable interface to text completion
// backends. The engine never calls these; the generate command wires
// the compressed context through.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Request carries the assembled context and generation parameters.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer generates continuation text from an assembled context.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// --- Ollama Provider ---

// OllamaCompleter uses a local Ollama instance.
type OllamaCompleter struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaCompleter creates a completer using Ollama's generate API.
func NewOllamaCompleter(model string) *OllamaCompleter {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaCompleter{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *OllamaCompleter) Complete(ctx context.Context, req Request) (string, error) {
	opts := map[string]interface{}{}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		opts["temperature"] = req.Temperature
	}
	body, _ := json.Marshal(ollamaRequest{Model: c.model, Prompt: req.Prompt, Options: opts})
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(b))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Response, nil
}

// --- OpenAI-compatible Provider ---

// OpenAICompleter uses any OpenAI-compatible completions API.
type OpenAICompleter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type openaiRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type openaiResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// NewOpenAICompleter creates a completer using an OpenAI-compatible API.
func NewOpenAICompleter(baseURL, apiKey, model string) *OpenAICompleter {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo-instruct"
	}
	return &OpenAICompleter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:       c.model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai error %d: %s", resp.StatusCode, string(b))
	}

	var result openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return result.Choices[0].Text, nil
}

// --- Factory ---

// NewFromEnv creates a completer from environment variables.
// PLOTLINE_COMPLETION_PROVIDER: "ollama" | "openai"
// PLOTLINE_COMPLETION_MODEL: model name
// PLOTLINE_COMPLETION_URL: base URL override
// OPENAI_API_KEY: for openai provider
func NewFromEnv() (Completer, error) {
	provider := os.Getenv("PLOTLINE_COMPLETION_PROVIDER")
	model := os.Getenv("PLOTLINE_COMPLETION_MODEL")

	switch provider {
	case "ollama":
		if model == "" {
			model = "llama3"
		}
		return NewOllamaCompleter(model), nil
	case "openai":
		return NewOpenAICompleter(
			os.Getenv("PLOTLINE_COMPLETION_URL"),
			os.Getenv("OPENAI_API_KEY"),
			model,
		), nil
	case "":
		return nil, fmt.Errorf("no completion provider configured (set PLOTLINE_COMPLETION_PROVIDER)")
	default:
		return nil, fmt.Errorf("unknown completion provider %q", provider)
	}
}
