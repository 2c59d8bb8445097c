// Package plaid provides a bank-feed transaction source backed by the Plaid
// API, resolving each user's feed through their stored access token.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/service"
	"github.com/plaid/plaid-go/v20/plaid"
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: plaid environment", common.ErrMissingConfig)
	}

	validEnvs := map[string]bool{
		"sandbox":    true,
		"production": true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}

	return nil
}

// TokenSource resolves a user's Plaid access token. The storage layer
// satisfies this.
type TokenSource interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Client implements the TransactionSource interface against the Plaid API.
type Client struct {
	client    *plaid.APIClient
	tokens    TokenSource
	logger    *slog.Logger
	retryOpts *service.RetryOptions
}

// NewClient creates a new Plaid-backed transaction source.
func NewClient(cfg Config, tokens TokenSource) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
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
		client: plaid.NewAPIClient(configuration),
		tokens: tokens,
		logger: slog.Default().With("component", "plaid"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GetTransactions fetches one user's transactions within the date range.
// Users without a linked feed yield common.ErrNoAccessToken so callers can
// skip them.
func (c *Client) GetTransactions(ctx context.Context, userID string, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	user, err := c.tokens.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}
	if user.PlaidAccessToken == "" {
		return nil, fmt.Errorf("%w: user %s", common.ErrNoAccessToken, userID)
	}

	c.logger.Debug("Fetching transactions from Plaid",
		"user", userID,
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var allTransactions []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500) // Plaid's max page size

	// Fetch all transactions with pagination
	for {
		var plaidTransactions []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				user.PlaidAccessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			options := plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			}
			request.SetOptions(options)

			resp, _, reqErr := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if reqErr != nil {
				if plaidError := extractPlaidError(reqErr); plaidError != nil {
					if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
						c.logger.Warn("Rate limit hit, will retry", "error", plaidError.ErrorMessage)
						return &common.RetryableError{
							Err:       fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidError.ErrorMessage),
							Retryable: true,
						}
					}
					return fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage)
				}
				// Transport-level failure, worth retrying.
				return &common.RetryableError{
					Err:       fmt.Errorf("%w: %v", common.ErrPlaidConnection, reqErr),
					Retryable: true,
				}
			}

			plaidTransactions = resp.GetTransactions()
			return nil
		}, *c.retryOpts)

		if retryErr != nil {
			return nil, retryErr
		}

		allTransactions = append(allTransactions, plaidTransactions...)

		if len(plaidTransactions) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	c.logger.Debug("Fetched all transactions", "user", userID, "count", len(allTransactions))

	transactions := make([]model.Transaction, 0, len(allTransactions))
	for _, pt := range allTransactions {
		transactions = append(transactions, c.mapPlaidTransaction(userID, pt))
	}

	return transactions, nil
}

// mapPlaidTransaction converts a Plaid transaction to our internal model.
func (c *Client) mapPlaidTransaction(userID string, pt plaid.Transaction) model.Transaction {
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		c.logger.Error("Failed to parse transaction date", "date", pt.GetDate(), "error", err)
		date = time.Now()
	}

	// Merchant name, falling back to the raw description
	merchantName := pt.GetMerchantName()
	if merchantName == "" {
		merchantName = pt.GetName()
	}

	return model.Transaction{
		Date:         date,
		ID:           pt.GetTransactionId(),
		UserID:       userID,
		MerchantName: merchantName,
		Amount:       pt.GetAmount(),
	}
}

// extractPlaidError attempts to extract a Plaid error from a generic error.
func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}
