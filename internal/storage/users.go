package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// GetUsers returns all users ordered by ID. Candidate enumeration order for
// the similarity engine must be stable, so the ordering matters.
func (s *SQLiteStorage) GetUsers(ctx context.Context) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(plaid_access_token, ''), created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.PlaidAccessToken, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetUser retrieves a user by ID. Returns common.ErrNotFound when absent.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(plaid_access_token, ''), created_at
		FROM users
		WHERE id = ?
	`, id).Scan(&user.ID, &user.PlaidAccessToken, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// SaveUser inserts or updates a user record.
func (s *SQLiteStorage) SaveUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if err := validateString(user.ID, "user.ID"); err != nil {
		return err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, plaid_access_token, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plaid_access_token = excluded.plaid_access_token
	`, user.ID, nullableString(user.PlaidAccessToken), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}
