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

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
)

// Client sends a single prompt to a provider and returns the raw text reply.
type Client interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Config holds provider and throttling settings.
type Config struct {
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	MaxRetries    int
	RetryDelay    time.Duration
	CacheTTL      time.Duration
	Timeout       time.Duration
	RateLimit     int
	MaxConcurrent int
	Temperature   float64
	MaxTokens     int
}

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 2000
)

// settings are the per-request knobs shared by every provider.
type settings struct {
	model       string
	temperature float64
	maxTokens   int
}

func resolveSettings(cfg Config, provider, defaultModel string) (settings, error) {
	if cfg.APIKey == "" {
		return settings{}, fmt.Errorf("%s API key is required", provider)
	}
	s := settings{model: cfg.Model, temperature: cfg.Temperature, maxTokens: cfg.MaxTokens}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.temperature == 0 {
		s.temperature = defaultTemperature
	}
	if s.maxTokens == 0 {
		s.maxTokens = defaultMaxTokens
	}
	return s, nil
}

// endpoint joins a BaseURL override with the provider path, or returns the
// production URL.
func endpoint(baseURL, production, path string) string {
	if baseURL == "" {
		return production
	}
	return strings.TrimRight(baseURL, "/") + path
}

// postJSON sends payload as JSON and decodes a 200 reply into out.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(provider, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", provider, err)
	}
	return nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-200 reply. 429 and 5xx are retried; other
// client errors are not.
func statusError(provider string, status int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, string(body))
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}
