package llm

import (
	"context"
	"errors"
	"net/http"
)

const openAIURL = "https://api.openai.com/v1/chat/completions"

type openAIClient struct {
	httpClient *http.Client
	apiKey     string
	url        string
	settings
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

func newOpenAIClient(cfg Config) (Client, error) {
	s, err := resolveSettings(cfg, "OpenAI", "gpt-4o-mini")
	if err != nil {
		return nil, err
	}
	return &openAIClient{
		httpClient: newHTTPClient(),
		apiKey:     cfg.APIKey,
		url:        endpoint(cfg.BaseURL, openAIURL, "/v1/chat/completions"),
		settings:   s,
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.httpClient, "OpenAI", c.url, headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
