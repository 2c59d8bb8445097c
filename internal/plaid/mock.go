package plaid

import (
	"context"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// MockSource is an in-memory TransactionSource for tests: transactions
// keyed by user ID, filtered by the requested window. Users absent from the
// map behave like users without a linked feed.
type MockSource struct {
	Transactions map[string][]model.Transaction

	// Call tracking
	Calls []MockCall
}

// MockCall records the parameters of one GetTransactions call.
type MockCall struct {
	Start  time.Time
	End    time.Time
	UserID string
}

// NewMockSource creates a mock source with the given per-user transactions.
func NewMockSource(transactions map[string][]model.Transaction) *MockSource {
	if transactions == nil {
		transactions = make(map[string][]model.Transaction)
	}
	return &MockSource{Transactions: transactions}
}

// GetTransactions implements service.TransactionSource.
func (m *MockSource) GetTransactions(_ context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	m.Calls = append(m.Calls, MockCall{UserID: userID, Start: start, End: end})

	txns, ok := m.Transactions[userID]
	if !ok {
		return nil, common.ErrNoAccessToken
	}

	var out []model.Transaction
	for _, txn := range txns {
		if txn.Date.Before(start) || txn.Date.After(end) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}
