package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/service"
)

// Enricher implements service.Enricher on top of a provider Client.
type Enricher struct {
	client    Client
	cache     *enrichmentCache
	throttle  *throttle
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

var _ service.Enricher = (*Enricher)(nil)

// NewEnricher creates an Enricher for the configured provider.
func NewEnricher(cfg Config, logger *slog.Logger) (*Enricher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewEnricherWithClient(client, cfg, logger), nil
}

// NewEnricherWithClient wraps an existing client with caching, throttling and
// retries.
func NewEnricherWithClient(client Client, cfg Config, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Enricher{
		client:    client,
		cache:     newEnrichmentCache(cfg.CacheTTL),
		throttle:  newThrottle(cfg.RateLimit, cfg.MaxConcurrent),
		logger:    logger.With("component", "llm"),
		retryOpts: retryOpts,
	}
}

// Enrich asks the model to refine report. Only BuildAggregate's output is
// sent.
func (e *Enricher) Enrich(ctx context.Context, transactions []model.Transaction, report *model.Report) (*model.Enrichment, error) {
	agg := BuildAggregate(transactions, report)
	key := agg.Fingerprint()

	if cached, ok := e.cache.get(key); ok {
		e.logger.Debug("enrichment cache hit")
		return &cached, nil
	}

	prompt, err := buildPrompt(agg)
	if err != nil {
		return nil, err
	}

	release, err := e.throttle.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var enrichment *model.Enrichment
	err = common.WithRetry(ctx, func() error {
		content, completeErr := e.client.Complete(ctx, systemPrompt, prompt)
		if completeErr != nil {
			return completeErr
		}
		parsed, parseErr := parseEnrichment(content)
		if parseErr != nil {
			return &common.RetryableError{Err: parseErr, Retryable: false}
		}
		enrichment = parsed
		return nil
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEnrichmentUnavailable, err)
	}

	e.cache.set(key, *enrichment)
	e.logger.Info("report enriched",
		"enhanced_leaks", len(enrichment.EnhancedLeaks),
		"easy_wins", len(enrichment.EasyWins),
		"recovery_steps", len(enrichment.RecoveryPlan))

	return enrichment, nil
}
