package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/centavo-app/centavo/internal/model"
)

// GetOrCreateCategory looks a category up by (name, owner) and creates it if
// absent. Concurrent creators for the same pair converge on a single row:
// the insert is a no-op on conflict with the uniqueness constraint and the
// winner is re-read afterwards.
func (s *SQLiteStorage) GetOrCreateCategory(ctx context.Context, name string, ownerUserID *string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	cat, err := s.getCategory(ctx, name, ownerUserID)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO categories (name, owner_user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, name, ownerUserID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	// Re-read regardless of whether our insert or a concurrent one won.
	cat, err = s.getCategory(ctx, name, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read category after create: %w", err)
	}

	slog.Debug("resolved category", "name", name, "id", cat.ID)
	return cat, nil
}

func (s *SQLiteStorage) getCategory(ctx context.Context, name string, ownerUserID *string) (*model.Category, error) {
	var cat model.Category

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_user_id, created_at
		FROM categories
		WHERE name = ? AND COALESCE(owner_user_id, '') = COALESCE(?, '')
	`, name, ownerUserID).Scan(
		&cat.ID, &cat.Name, &cat.OwnerUserID, &cat.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_user_id, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.OwnerUserID, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}
