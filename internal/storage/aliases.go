package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/model"
)

// LookupAlias retrieves a merchant alias by name or synonym. The input is
// normalized before lookup, so any string that normalizes to a known alias
// hits. Returns common.ErrNotFound on a miss.
func (s *SQLiteStorage) LookupAlias(ctx context.Context, nameOrSynonym string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(nameOrSynonym, "nameOrSynonym"); err != nil {
		return nil, err
	}

	normalized := lexical.Normalize(nameOrSynonym)
	if normalized == "" {
		return nil, common.ErrNotFound
	}

	// Check cache first
	if alias := s.getCachedAlias(normalized); alias != nil {
		return alias, nil
	}

	var alias model.MerchantAlias
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.merchant_name, a.normalized, a.category_id, c.name, a.confidence_score, a.last_used_at
		FROM merchant_aliases a
		JOIN categories c ON c.id = a.category_id
		WHERE a.normalized = ?
	`, normalized).Scan(
		&alias.ID,
		&alias.MerchantName,
		&alias.Normalized,
		&alias.CategoryID,
		&alias.CategoryName,
		&alias.Confidence,
		&alias.LastUsedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}

	s.cacheAlias(&alias)
	return &alias, nil
}

// RecordAlias upserts a merchant alias keyed on the normalized name. On
// conflict last_used_at is always refreshed, but the stored category and
// confidence are only replaced when the incoming confidence is at least the
// stored one, so a low-confidence write never clobbers a better assignment.
func (s *SQLiteStorage) RecordAlias(ctx context.Context, merchantName string, categoryID int, confidence float64) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(merchantName, "merchantName"); err != nil {
		return nil, err
	}
	if err := validateConfidence(confidence); err != nil {
		return nil, err
	}

	normalized := lexical.Normalize(merchantName)
	if normalized == "" {
		return nil, fmt.Errorf("%w: merchantName normalizes to empty", ErrEmptyString)
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_aliases (merchant_name, normalized, category_id, confidence_score, last_used_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(normalized) DO UPDATE SET
			last_used_at = excluded.last_used_at,
			category_id = CASE
				WHEN excluded.confidence_score >= confidence_score THEN excluded.category_id
				ELSE category_id
			END,
			confidence_score = CASE
				WHEN excluded.confidence_score >= confidence_score THEN excluded.confidence_score
				ELSE confidence_score
			END
	`, merchantName, normalized, categoryID, confidence, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record alias: %w", err)
	}

	// Invalidate before re-reading so the cache reflects the winning row.
	s.cacheMutex.Lock()
	delete(s.aliasCache, normalized)
	s.cacheMutex.Unlock()

	return s.LookupAlias(ctx, merchantName)
}

// TouchAlias refreshes an alias's last_used_at timestamp on a cache hit.
func (s *SQLiteStorage) TouchAlias(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE merchant_aliases SET last_used_at = ? WHERE id = ?
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch alias: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// getCachedAlias retrieves an alias from the in-memory cache.
func (s *SQLiteStorage) getCachedAlias(normalized string) *model.MerchantAlias {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		// Cache expired, needs to be cleared
		// Upgrade to write lock
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		// Double-check after acquiring write lock
		if time.Now().After(s.cacheExpiry) {
			s.aliasCache = make(map[string]*model.MerchantAlias)
		}
		return nil
	}

	alias := s.aliasCache[normalized]
	s.cacheMutex.RUnlock()
	return alias
}

// cacheAlias adds an alias to the in-memory cache.
func (s *SQLiteStorage) cacheAlias(alias *model.MerchantAlias) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.aliasCache) == 0 {
		// Set cache expiry on first entry
		s.cacheExpiry = time.Now().Add(5 * time.Minute)
	}
	s.aliasCache[alias.Normalized] = alias
}
