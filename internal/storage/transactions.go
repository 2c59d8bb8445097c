package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// SaveTransactions inserts transactions, ignoring duplicates by ID.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
			(id, user_id, merchant_name, amount, category, original_category, user_overridden, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.UserID, txn.MerchantName, txn.Amount,
			nullableString(txn.Category), txn.OriginalCategory, txn.UserOverridden, txn.Date,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactions returns one user's transactions within [start, end].
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v is before %v", ErrInvalidDateRange, end, start)
	}

	return s.queryTransactions(ctx, s.db, `
		SELECT id, user_id, merchant_name, amount, COALESCE(category, ''), original_category, user_overridden, date
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date
	`, userID, start, end)
}

// GetUncategorizedTransactions returns every transaction without a category,
// oldest first. Used by the backfill flow.
func (s *SQLiteStorage) GetUncategorizedTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, s.db, `
		SELECT id, user_id, merchant_name, amount, COALESCE(category, ''), original_category, user_overridden, date
		FROM transactions
		WHERE category IS NULL OR category = ''
		ORDER BY date
	`)
}

// UpdateTransactionCategory sets a transaction's category without marking it
// as a user override. Used when the engine assigns a category.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, transactionID, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category = ? WHERE id = ?
	`, category, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	return requireRowsAffected(result)
}

// RecordOverride applies a user's manual category replacement. The original
// category is captured exactly once, on the first override, and preserved
// across subsequent ones.
func (s *SQLiteStorage) RecordOverride(ctx context.Context, transactionID, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET original_category = CASE
				WHEN user_overridden = 0 THEN category
				ELSE original_category
			END,
			category = ?,
			user_overridden = 1
		WHERE id = ?
	`, category, transactionID)
	if err != nil {
		return fmt.Errorf("failed to record override: %w", err)
	}

	return requireRowsAffected(result)
}

// GetUserOverrides returns every transaction where the user overrode any
// category.
func (s *SQLiteStorage) GetUserOverrides(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, s.db, `
		SELECT id, user_id, merchant_name, amount, COALESCE(category, ''), original_category, user_overridden, date
		FROM transactions
		WHERE user_id = ? AND user_overridden = 1
		ORDER BY date
	`, userID)
}

// GetUserOverridesOfCategory returns the transactions where one user
// overrode a specific original category.
func (s *SQLiteStorage) GetUserOverridesOfCategory(ctx context.Context, userID, originalCategory string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(originalCategory, "originalCategory"); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, s.db, `
		SELECT id, user_id, merchant_name, amount, COALESCE(category, ''), original_category, user_overridden, date
		FROM transactions
		WHERE user_id = ? AND original_category = ? AND user_overridden = 1
		ORDER BY date
	`, userID, originalCategory)
}

// GetOverridesOfCategory returns the transactions where any user overrode a
// specific original category.
func (s *SQLiteStorage) GetOverridesOfCategory(ctx context.Context, originalCategory string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(originalCategory, "originalCategory"); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, s.db, `
		SELECT id, user_id, merchant_name, amount, COALESCE(category, ''), original_category, user_overridden, date
		FROM transactions
		WHERE original_category = ? AND user_overridden = 1
		ORDER BY date
	`, originalCategory)
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, q queryable, query string, args ...any) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.MerchantName,
			&txn.Amount,
			&txn.Category,
			&txn.OriginalCategory,
			&txn.UserOverridden,
			&txn.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func requireRowsAffected(result interface{ RowsAffected() (int64, error) }) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
