package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultRateLimit     = 60
	defaultMaxConcurrent = 2
)

// throttle bounds calls to the shared endpoint: a token bucket refilled at
// rate-per-minute plus a cap on in-flight requests.
type throttle struct {
	lastRefill time.Time
	now        func() time.Time
	slots      chan struct{}
	interval   time.Duration
	tokens     int
	capacity   int
	mu         sync.Mutex
}

func newThrottle(perMinute, maxConcurrent int) *throttle {
	if perMinute <= 0 {
		perMinute = defaultRateLimit
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &throttle{
		lastRefill: time.Now(),
		now:        time.Now,
		slots:      make(chan struct{}, maxConcurrent),
		interval:   time.Minute / time.Duration(perMinute),
		tokens:     perMinute,
		capacity:   perMinute,
	}
}

// acquire waits for a token and a free slot. The returned func releases the
// slot.
func (t *throttle) acquire(ctx context.Context) (func(), error) {
	select {
	case t.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("throttle canceled: %w", ctx.Err())
	}
	release := func() { <-t.slots }

	for {
		wait := t.take()
		if wait == 0 {
			return release, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			release()
			return nil, fmt.Errorf("throttle canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// take consumes a token, or reports how long until the next one.
func (t *throttle) take() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if elapsed := now.Sub(t.lastRefill); elapsed >= t.interval {
		refilled := int(elapsed / t.interval)
		t.tokens = min(t.capacity, t.tokens+refilled)
		t.lastRefill = t.lastRefill.Add(time.Duration(refilled) * t.interval)
	}

	if t.tokens > 0 {
		t.tokens--
		return 0
	}
	if wait := t.interval - now.Sub(t.lastRefill); wait > 0 {
		return wait
	}
	return time.Millisecond
}
