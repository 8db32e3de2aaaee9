package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/service"
)

var (
	// ErrRateLimit is returned when a remote provider throttles us.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks whether a failure is worth another attempt.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

func withRetryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}

// nextDelay grows the wait geometrically, capped at MaxDelay. Rate limits
// jump straight to the cap.
func nextDelay(current time.Duration, err error, opts service.RetryOptions) time.Duration {
	if errors.Is(err, ErrRateLimit) {
		return opts.MaxDelay
	}
	next := time.Duration(float64(current) * opts.Multiplier)
	if next > opts.MaxDelay {
		return opts.MaxDelay
	}
	return next
}

// WithRetry runs operation until it succeeds, returns a non-retryable error,
// the attempts run out, or ctx is done.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withRetryDefaults(opts)
	wait := opts.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		var marked *RetryableError
		if errors.As(lastErr, &marked) && !marked.Retryable {
			return lastErr
		}
		if attempt == opts.MaxAttempts {
			break
		}

		if errors.Is(lastErr, ErrRateLimit) {
			wait = opts.MaxDelay
		}
		slog.WarnContext(ctx, "Attempt failed, backing off",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"wait", wait,
			"error", lastErr)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = nextDelay(wait, lastErr, opts)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, lastErr)
}
