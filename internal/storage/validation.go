// Package storage provides the data persistence layer for the categorization engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/centavo-app/centavo/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 100")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateConfidence ensures a confidence score is within [0, 100].
func validateConfidence(confidence float64) error {
	if confidence < 0 || confidence > 100 {
		return fmt.Errorf("%w: got %f", ErrInvalidConfidence, confidence)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.MerchantName == "" {
		return fmt.Errorf("%w: missing merchant name", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}
