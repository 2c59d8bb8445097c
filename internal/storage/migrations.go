package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					plaid_access_token TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					owner_user_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				// Uniqueness over (name, owner); site-wide rows have a NULL
				// owner, normalized to '' so the constraint still applies.
				`CREATE UNIQUE INDEX idx_categories_name_owner
					ON categories(name, COALESCE(owner_user_id, ''))`,

				`CREATE TABLE IF NOT EXISTS merchant_aliases (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					merchant_name TEXT NOT NULL,
					normalized TEXT UNIQUE NOT NULL,
					category_id INTEGER NOT NULL,
					confidence_score REAL NOT NULL DEFAULT 0,
					last_used_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					merchant_name TEXT NOT NULL,
					amount REAL NOT NULL DEFAULT 0,
					category TEXT,
					original_category TEXT,
					user_overridden BOOLEAN NOT NULL DEFAULT 0,
					date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index override history for recommendation queries",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_transactions_overrides
					ON transactions(original_category, user_overridden)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_user_overrides
					ON transactions(user_id, user_overridden)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index alias staleness for cache maintenance",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_merchant_aliases_last_used
				ON merchant_aliases(last_used_at)
			`)
			if err != nil {
				return fmt.Errorf("failed to create last-used index: %w", err)
			}
			return nil
		},
	},
}

// SchemaVersion reports the schema version currently recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
