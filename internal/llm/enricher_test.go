package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, prompt)
	return args.String(0), args.Error(1)
}

const validReply = `{"easy_wins":[{"title":"Cancel one streaming service","estimated_yearly_savings":120,"action":"Pick one"}],"recovery_plan":["Week 1: audit subscriptions"]}`

func testConfig() Config {
	return Config{MaxRetries: 3, RetryDelay: time.Millisecond, RateLimit: 600, MaxConcurrent: 1}
}

func TestEnricherEnrich(t *testing.T) {
	txns, report := fixtureReport()

	client := &mockClient{}
	client.On("Complete", mock.Anything, systemPrompt, mock.MatchedBy(func(p string) bool {
		return !strings.Contains(p, "NETFLIX") && !strings.Contains(p, "WOOLWORTHS")
	})).Return(validReply, nil).Once()

	e := NewEnricherWithClient(client, testConfig(), nil)

	got, err := e.Enrich(context.Background(), txns, report)
	require.NoError(t, err)
	require.Len(t, got.EasyWins, 1)
	assert.InDelta(t, 120.0, got.EasyWins[0].EstimatedYearlySavings, 0.001)
	assert.Equal(t, []string{"Week 1: audit subscriptions"}, got.RecoveryPlan)

	// Second call is served from the cache.
	again, err := e.Enrich(context.Background(), txns, report)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, e.cache.size())

	client.AssertExpectations(t)
}

func TestEnricherRetriesTransientErrors(t *testing.T) {
	txns, report := fixtureReport()

	client := &mockClient{}
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", &common.RetryableError{Err: errors.New("503"), Retryable: true}).Once()
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(validReply, nil).Once()

	got, err := NewEnricherWithClient(client, testConfig(), nil).Enrich(context.Background(), txns, report)
	require.NoError(t, err)
	assert.NotEmpty(t, got.EasyWins)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestEnricherMalformedReply(t *testing.T) {
	txns, report := fixtureReport()

	client := &mockClient{}
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("I'd rather not.", nil)

	_, err := NewEnricherWithClient(client, testConfig(), nil).Enrich(context.Background(), txns, report)
	require.ErrorIs(t, err, common.ErrEnrichmentUnavailable)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestEnricherCanceledContext(t *testing.T) {
	txns, report := fixtureReport()
	client := &mockClient{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnricherWithClient(client, testConfig(), nil)
	e.throttle.slots <- struct{}{}

	_, err := e.Enrich(ctx, txns, report)
	require.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewEnricherRejectsBadProvider(t *testing.T) {
	_, err := NewEnricher(Config{Provider: "nope", APIKey: "k"}, nil)
	require.Error(t, err)
}
