package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/service"
)

// Engine recommends a replacement category for one the user wants to
// overwrite, scoring candidates from three weighted signals: the user's own
// overwrite history, the most similar user's overwrites of the same
// category, and database-wide overwrites of it. Stateless: everything is
// fetched and discarded per call.
type Engine struct {
	storage    service.Storage
	similarity *SimilarityEngine
	logger     *slog.Logger
	weights    Weights
}

// NewEngine creates a recommendation engine.
func NewEngine(storage service.Storage, similarity *SimilarityEngine, weights Weights) *Engine {
	return &Engine{
		storage:    storage,
		similarity: similarity,
		weights:    weights,
		logger:     slog.Default().With("component", "recommend"),
	}
}

// MonthWindow returns the trailing transaction window used for similarity:
// the start of now's calendar month through now.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

// Recommend returns the top-ranked replacement for categoryToOverwrite, or
// nil when there is no similar user or no overwrite signal anywhere. The
// caller applies the static fallback table on a nil result.
func (e *Engine) Recommend(ctx context.Context, userID, categoryToOverwrite string) (*model.Recommendation, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if categoryToOverwrite == "" {
		return nil, fmt.Errorf("category to overwrite cannot be empty")
	}

	start, end := MonthWindow(time.Now())
	similar, err := e.similarity.FindMostSimilarUser(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar user: %w", err)
	}
	if !similar.Found() {
		e.logger.Debug("no similar user, no recommendation", "user", userID)
		return nil, nil
	}

	// The three signal fetches are independent; issue them concurrently to
	// bound latency.
	var (
		wg            sync.WaitGroup
		userOverrides []model.Transaction
		similarOvr    []model.Transaction
		dbOverrides   []model.Transaction
		errs          [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		userOverrides, errs[0] = e.storage.GetUserOverrides(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		similarOvr, errs[1] = e.storage.GetUserOverridesOfCategory(ctx, similar.MostSimilarUserID, categoryToOverwrite)
	}()
	go func() {
		defer wg.Done()
		dbOverrides, errs[2] = e.storage.GetOverridesOfCategory(ctx, categoryToOverwrite)
	}()
	wg.Wait()

	for _, fetchErr := range errs {
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to fetch overwrite history: %w", fetchErr)
		}
	}

	scores := e.score(userOverrides, similarOvr, dbOverrides, similar.Similarity)
	if len(scores) == 0 {
		e.logger.Debug("no overwrite signal, no recommendation",
			"user", userID,
			"category", categoryToOverwrite)
		return nil, nil
	}

	top := scores[0]
	e.logger.Info("category recommendation",
		"user", userID,
		"replaces", categoryToOverwrite,
		"recommended", top.Category,
		"confidence", top.Confidence,
		"similar_user", similar.MostSimilarUserID,
		"similarity", similar.Similarity)

	return &model.Recommendation{
		RecommendedCategory: top.Category,
		Confidence:          top.Confidence,
		Similarity:          similar.Similarity,
		SimilarUserID:       similar.MostSimilarUserID,
	}, nil
}

// score aggregates the three signal sets into per-category weighted scores,
// sorted by confidence descending (category name breaks ties for stable
// output).
func (e *Engine) score(userOverrides, similarOverrides, dbOverrides []model.Transaction, similarity float64) []model.WeightedCategoryScore {
	weights := e.weights.normalized()
	byCategory := make(map[string]*model.WeightedCategoryScore)

	accumulate := func(category string) *model.WeightedCategoryScore {
		entry, ok := byCategory[category]
		if !ok {
			entry = &model.WeightedCategoryScore{Category: category}
			byCategory[category] = entry
		}
		entry.Count++
		return entry
	}

	for i := range userOverrides {
		if userOverrides[i].Category == "" {
			continue
		}
		accumulate(userOverrides[i].Category).UserWeight += weights.User
	}
	for i := range similarOverrides {
		if similarOverrides[i].Category == "" {
			continue
		}
		accumulate(similarOverrides[i].Category).SimilarUserWeight += weights.Similar * similarity
	}
	for i := range dbOverrides {
		if dbOverrides[i].Category == "" {
			continue
		}
		accumulate(dbOverrides[i].Category).DBWeight += weights.DB
	}

	scores := make([]model.WeightedCategoryScore, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.TotalWeight = entry.UserWeight + entry.SimilarUserWeight + entry.DBWeight
		entry.Confidence = candidateConfidence(entry.TotalWeight, similarity, entry.Count)
		scores = append(scores, *entry)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Confidence != scores[j].Confidence {
			return scores[i].Confidence > scores[j].Confidence
		}
		return scores[i].Category < scores[j].Category
	})

	return scores
}

// candidateConfidence scores one candidate category. Monotonically
// increasing in total weight, similarity and occurrence count; a zero count
// yields zero. count/(count+1) saturates toward 1 so sample size matters
// most when evidence is thin.
func candidateConfidence(totalWeight, similarity float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return totalWeight * (1 + similarity) * float64(count) / float64(count+1)
}
