// Package plaid fetches spending transactions from a linked bank account
// through the Plaid API.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
	"github.com/Veraticus/the-leaks-must-stop/internal/service"
)

// Source tags transactions fetched from Plaid.
const Source = "plaid"

const (
	dateLayout = "2006-01-02"
	pageSize   = int32(500) // Plaid's max page size
)

var _ service.TransactionSource = (*Client)(nil)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	}

	switch c.Environment {
	case "sandbox", "production":
		return nil
	default:
		return fmt.Errorf("%w: invalid Plaid environment %q: must be sandbox or production", common.ErrInvalidConfig, c.Environment)
	}
}

// Client implements service.TransactionSource.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	normalizer  *normalize.MerchantNormalizer
	retryOpts   service.RetryOptions
	accessToken string
}

// NewClient creates a new Plaid client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      slog.Default().With("component", "plaid"),
		normalizer:  normalize.DefaultMerchantNormalizer(),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GetTransactions fetches posted spending within the date range. Credits,
// refunds and pending rows are dropped.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format(dateLayout),
		"end_date", endDate.Format(dateLayout))

	var all []plaid.Transaction
	offset := int32(0)

	for {
		var page []plaid.Transaction
		var total int32

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format(dateLayout),
				endDate.Format(dateLayout),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.classifyError(err, "failed to fetch transactions")
			}

			page = resp.GetTransactions()
			total = resp.GetTotalTransactions()

			c.logger.Debug("Fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", total)
			return nil
		}, c.retryOpts)
		if retryErr != nil {
			return nil, retryErr
		}

		all = append(all, page...)

		if len(page) < int(pageSize) || int32(len(all)) >= total {
			break
		}
		offset += pageSize
	}

	transactions := MapTransactions(all)
	for i := range transactions {
		transactions[i].NormalizedMerchant = c.normalizer.Normalize(transactions[i].RawMerchant)
	}
	c.logger.Info("Fetched Plaid transactions",
		"fetched", len(all),
		"spending", len(transactions))

	return transactions, nil
}

func (c *Client) classifyError(err error, msg string) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
		c.logger.Warn("Rate limit hit, will retry", "error", plaidErr.ErrorMessage)
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidErr.ErrorMessage),
			Retryable: true,
		}
	}
	return &common.RetryableError{
		Err:       fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage),
		Retryable: false,
	}
}

// MapTransactions converts Plaid rows to spending-positive transactions.
func MapTransactions(rows []plaid.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(rows))
	for _, pt := range rows {
		if txn, ok := mapTransaction(pt); ok {
			out = append(out, txn)
		}
	}
	return out
}

// mapTransaction keeps posted outflows only. In Plaid, positive amounts are
// money leaving the account.
func mapTransaction(pt plaid.Transaction) (model.Transaction, bool) {
	if pt.GetPending() || pt.GetAmount() <= 0 {
		return model.Transaction{}, false
	}

	date := pt.GetDate()
	if _, err := time.Parse(dateLayout, date); err != nil {
		return model.Transaction{}, false
	}

	name := strings.TrimSpace(pt.GetName())
	merchant := strings.TrimSpace(pt.GetMerchantName())
	if merchant == "" {
		merchant = name
	}
	if merchant == "" {
		return model.Transaction{}, false
	}

	return model.Transaction{
		Date:        date,
		RawMerchant: merchant,
		Description: name,
		Amount:      pt.GetAmount(),
		Source:      Source,
	}, true
}
