package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Completer performs a non-streaming chat completion against the backend
// described by cfg. The dispatcher depends on this interface, not on the
// concrete client.
type Completer interface {
	Complete(ctx context.Context, cfg BackendConfig, messages []Message) (string, error)
}

// Client is the OpenAI-compatible chat-completions HTTP client. One client
// serves every HTTP family; the per-request BackendConfig carries the base
// URL and credential.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client with a generous timeout — large completions on
// the 405B family routinely take over a minute.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 5 * time.Minute}}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends a single chat completion and returns the assistant text.
// Transport failures and non-2xx statuses come back as *BackendError.
func (c *Client) Complete(ctx context.Context, cfg BackendConfig, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	url := strings.TrimSuffix(base, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &BackendError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", &BackendError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed completionResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
		return "", fmt.Errorf("decode completion response: %w", decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
