package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/config"
	"github.com/centavo-app/centavo/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Applies any pending schema migrations to the SQLite database.`,
		RunE:  runMigrate,
	}

	cmd.Flags().Bool("status", false, "show the current schema version without migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	statusOnly, _ := cmd.Flags().GetBool("status")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbPath := cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if statusOnly {
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Schema version: %d (expected %d)\n", version, storage.ExpectedSchemaVersion)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	cmd.Printf("Database migrated to schema version %d.\n", storage.ExpectedSchemaVersion)
	return nil
}
