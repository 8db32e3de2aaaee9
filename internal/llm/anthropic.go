package llm

import (
	"context"
	"errors"
	"net/http"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type anthropicClient struct {
	httpClient *http.Client
	apiKey     string
	url        string
	settings
}

type messagesRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type messagesResponse struct {
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func newAnthropicClient(cfg Config) (Client, error) {
	s, err := resolveSettings(cfg, "anthropic", "claude-sonnet-4-20250514")
	if err != nil {
		return nil, err
	}
	return &anthropicClient{
		httpClient: newHTTPClient(),
		apiKey:     cfg.APIKey,
		url:        endpoint(cfg.BaseURL, anthropicURL, "/v1/messages"),
		settings:   s,
	}, nil
}

// Complete returns the first text block of the reply.
func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	req := messagesRequest{
		Model:       c.model,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var resp messagesResponse
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}
	if err := postJSON(ctx, c.httpClient, "anthropic", c.url, headers, req, &resp); err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no content in response")
}
