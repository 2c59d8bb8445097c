// Package engine implements the categorization orchestrator: it resolves a
// raw merchant name to a category with a confidence score by consulting the
// alias cache, the synonym path and the external taxonomy path in order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/service"
)

// Config holds configuration options for the categorization engine.
type Config struct {
	// LookupTimeout bounds a single external taxonomy lookup.
	LookupTimeout time.Duration
	// LocationHint is forwarded to the taxonomy collaborator.
	LocationHint string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LookupTimeout: 5 * time.Second,
	}
}

// Engine orchestrates merchant-name categorization.
type Engine struct {
	storage  service.Storage
	taxonomy service.TaxonomyLookup
	expander *lexical.Expander
	logger   *slog.Logger
	config   Config
}

// New creates a categorization engine with the default configuration.
func New(storage service.Storage, taxonomy service.TaxonomyLookup, expander *lexical.Expander) *Engine {
	return NewWithConfig(storage, taxonomy, expander, DefaultConfig())
}

// NewWithConfig creates a categorization engine with custom configuration.
func NewWithConfig(storage service.Storage, taxonomy service.TaxonomyLookup, expander *lexical.Expander, config Config) *Engine {
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = DefaultConfig().LookupTimeout
	}
	return &Engine{
		storage:  storage,
		taxonomy: taxonomy,
		expander: expander,
		config:   config,
		logger:   slog.Default().With("component", "engine"),
	}
}

// stageResult is the tagged outcome of one resolution stage. Stages are
// independent and composed explicitly by Categorize; a miss carries zero
// values.
type stageResult struct {
	categoryName string
	matchedAlias string
	confidence   float64
	categoryID   int
	hit          bool
}

// Categorize resolves a merchant name for a user. It always produces a
// category: lookup failures on the external paths degrade to the user's
// Uncategorized category with confidence 0. Only context cancellation and
// persistence failures surface as errors.
func (e *Engine) Categorize(ctx context.Context, merchantName, userID string) (*model.Categorization, error) {
	if merchantName == "" {
		return nil, fmt.Errorf("merchant name cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	// Stage 1: exact alias cache hit.
	if res := e.cacheStage(ctx, merchantName); res.hit {
		e.logger.Debug("alias cache hit",
			"merchant", merchantName,
			"category", res.categoryName,
			"confidence", res.confidence)
		return e.resultFromStage(res), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: best alias hit across lexical synonyms.
	synonym := e.synonymStage(ctx, merchantName)

	// Stage 3: external taxonomy lookup.
	taxonomyRes, match := e.taxonomyStage(ctx, merchantName)

	// Pick the higher-confidence path; ties favor the fresher taxonomy result.
	if synonym.hit && synonym.confidence > taxonomyRes.confidence {
		e.logger.Info("categorized via synonym",
			"merchant", merchantName,
			"synonym", synonym.matchedAlias,
			"category", synonym.categoryName,
			"confidence", synonym.confidence)
		return e.persist(ctx, merchantName, synonym)
	}

	if taxonomyRes.hit {
		category, err := e.storage.GetOrCreateCategory(ctx, match.Categories[0], &userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve taxonomy category: %w", err)
		}
		taxonomyRes.categoryID = category.ID
		taxonomyRes.categoryName = category.Name

		e.logger.Info("categorized via taxonomy",
			"merchant", merchantName,
			"canonical", match.Name,
			"category", category.Name,
			"confidence", taxonomyRes.confidence)
		return e.persist(ctx, merchantName, taxonomyRes)
	}

	if synonym.hit {
		e.logger.Info("categorized via synonym",
			"merchant", merchantName,
			"synonym", synonym.matchedAlias,
			"category", synonym.categoryName,
			"confidence", synonym.confidence)
		return e.persist(ctx, merchantName, synonym)
	}

	// Neither path produced a usable category.
	return e.uncategorized(ctx, merchantName, userID)
}

// cacheStage checks for an exact alias on the merchant name and refreshes
// its last-used timestamp on a hit.
func (e *Engine) cacheStage(ctx context.Context, merchantName string) stageResult {
	alias, err := e.storage.LookupAlias(ctx, merchantName)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			e.logger.Warn("alias lookup failed", "merchant", merchantName, "error", err)
		}
		return stageResult{}
	}

	if err := e.storage.TouchAlias(ctx, alias.ID); err != nil {
		e.logger.Warn("failed to touch alias", "alias_id", alias.ID, "error", err)
	}

	return stageResult{
		hit:          true,
		categoryID:   alias.CategoryID,
		categoryName: alias.CategoryName,
		confidence:   alias.Confidence,
	}
}

// synonymStage expands the merchant name into synonyms and returns the
// highest-confidence alias hit among them.
func (e *Engine) synonymStage(ctx context.Context, merchantName string) stageResult {
	var best stageResult

	for _, synonym := range e.expander.Expand(merchantName) {
		alias, err := e.storage.LookupAlias(ctx, synonym)
		if err != nil {
			continue
		}
		if !best.hit || alias.Confidence > best.confidence {
			best = stageResult{
				hit:          true,
				categoryID:   alias.CategoryID,
				categoryName: alias.CategoryName,
				matchedAlias: synonym,
				confidence:   alias.Confidence,
			}
		}
	}

	return best
}

// taxonomyStage queries the external lookup with a bounded timeout. Errors
// and not-found both degrade to a miss; a match without categories is not
// usable but still contributes its confidence of 0 to the comparison.
func (e *Engine) taxonomyStage(ctx context.Context, merchantName string) (stageResult, *model.BusinessMatch) {
	lookupCtx, cancel := context.WithTimeout(ctx, e.config.LookupTimeout)
	defer cancel()

	match, err := e.taxonomy.Lookup(lookupCtx, merchantName, e.config.LocationHint)
	if err != nil {
		e.logger.Warn("taxonomy lookup failed, treating as no match",
			"merchant", merchantName,
			"error", err)
		return stageResult{}, nil
	}
	if match == nil || len(match.Categories) == 0 {
		return stageResult{}, nil
	}

	return stageResult{
		hit:        true,
		confidence: ConfidenceScore(merchantName, match),
	}, match
}

// persist records the winning result as an alias keyed on the original
// merchant name so future exact lookups are O(1). A name with no
// normalizable characters has no alias key; the result is returned without
// being remembered.
func (e *Engine) persist(ctx context.Context, merchantName string, res stageResult) (*model.Categorization, error) {
	if lexical.Normalize(merchantName) == "" {
		return e.resultFromStage(res), nil
	}

	if _, err := e.storage.RecordAlias(ctx, merchantName, res.categoryID, res.confidence); err != nil {
		return nil, fmt.Errorf("failed to record alias: %w", err)
	}
	return e.resultFromStage(res), nil
}

// uncategorized falls back to the user's Uncategorized category with
// confidence 0, persisting the alias so the miss is remembered.
func (e *Engine) uncategorized(ctx context.Context, merchantName, userID string) (*model.Categorization, error) {
	category, err := e.storage.GetOrCreateCategory(ctx, model.UncategorizedName, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uncategorized: %w", err)
	}

	e.logger.Info("no category signal, using fallback",
		"merchant", merchantName,
		"category", category.Name)

	return e.persist(ctx, merchantName, stageResult{
		hit:          true,
		categoryID:   category.ID,
		categoryName: category.Name,
	})
}

func (e *Engine) resultFromStage(res stageResult) *model.Categorization {
	return &model.Categorization{
		Category: &model.Category{
			ID:   res.categoryID,
			Name: res.categoryName,
		},
		MatchedAlias: res.matchedAlias,
		Confidence:   res.confidence,
	}
}
