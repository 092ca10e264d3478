// Package agent contains the HTTP clients for the external AI services:
// the natural-language reasoning service and the speech synthesizer.
package agent

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

// CompletionOptions control sampling for a single reasoning call.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// ReasoningClient is a text-in/text-out interface to the reasoning
// service. Implementations may fail with transport or status errors;
// callers are expected to degrade, never to propagate the failure.
type ReasoningClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)
}

type reasoningClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewReasoningClient builds a chat-completions client against the
// configured endpoint (Cerebras-compatible wire format).
func NewReasoningClient(apiKey, apiURL, model string) ReasoningClient {
	return &reasoningClient{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *reasoningClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reasoning API error: %s - %s", resp.Status, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("reasoning API returned malformed body: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("reasoning API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
