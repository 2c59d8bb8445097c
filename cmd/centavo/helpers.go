package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/config"
	"github.com/centavo-app/centavo/internal/engine"
	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/plaid"
	"github.com/centavo-app/centavo/internal/recommend"
	"github.com/centavo-app/centavo/internal/service"
	"github.com/centavo-app/centavo/internal/storage"
	"github.com/centavo-app/centavo/internal/taxonomy"
)

// initStorage opens the SQLite database from config and runs any pending
// migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	dbPath := cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open the database at "+dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("could not migrate the database", err)
	}

	return store, nil
}

// buildCategorizer wires the categorization engine with its taxonomy and
// synonym collaborators.
func buildCategorizer(cfg *config.Config, store service.Storage) (*engine.Engine, error) {
	lookup, err := buildTaxonomy(cfg)
	if err != nil {
		return nil, err
	}

	expander := lexical.NewExpander(lexical.NewStaticLexicon())
	engineCfg := engine.Config{
		LookupTimeout: cfg.Taxonomy.Timeout,
		LocationHint:  cfg.Taxonomy.DefaultLocation,
	}

	return engine.NewWithConfig(store, lookup, expander, engineCfg), nil
}

// buildTaxonomy returns the configured business-category lookup. Without an
// API key every lookup reports no match, which leaves the cache and synonym
// stages fully functional.
func buildTaxonomy(cfg *config.Config) (service.TaxonomyLookup, error) {
	if cfg.Taxonomy.APIKey == "" {
		return taxonomy.NewMockLookup(nil), nil
	}

	return taxonomy.NewClient(taxonomy.Config{
		APIKey:          cfg.Taxonomy.APIKey,
		BaseURL:         cfg.Taxonomy.BaseURL,
		DefaultLocation: cfg.Taxonomy.DefaultLocation,
		Timeout:         cfg.Taxonomy.Timeout,
		CacheTTL:        cfg.Taxonomy.CacheTTL,
	})
}

// buildRecommender wires the recommendation engine. With Plaid enabled the
// similarity signal reads fresh transactions from the bank feed; otherwise it
// falls back to transactions already persisted in storage.
func buildRecommender(cfg *config.Config, store service.Storage) (*recommend.Engine, error) {
	var source service.TransactionSource = store
	if cfg.Plaid.Enabled {
		client, err := plaid.NewClient(plaid.Config{
			ClientID:    cfg.Plaid.ClientID,
			Secret:      cfg.Plaid.Secret,
			Environment: cfg.Plaid.Environment,
		}, store)
		if err != nil {
			return nil, common.NewUserError("could not set up the Plaid connection", err)
		}
		source = client
	}

	similarity := recommend.NewSimilarityEngine(store, source)
	weights := recommend.Weights{
		User:    cfg.Recommend.UserWeight,
		Similar: cfg.Recommend.SimilarWeight,
		DB:      cfg.Recommend.DBWeight,
		Decay:   cfg.Recommend.Decay,
	}

	return recommend.NewEngine(store, similarity, weights), nil
}
