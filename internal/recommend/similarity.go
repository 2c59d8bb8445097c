// Package recommend implements the collaborative parts of categorization:
// finding the most similar other user by merchant overlap and recommending a
// replacement category from weighted overwrite histories.
package recommend

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/service"
)

// merchantSet is a user's set of normalized merchant names over a window.
type merchantSet map[string]struct{}

// jaccard computes |a ∩ b| / |a ∪ b|, or 0 when the union is empty.
func jaccard(a, b merchantSet) float64 {
	intersection := 0
	for merchant := range a {
		if _, ok := b[merchant]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// SimilarityEngine finds the user whose transaction window overlaps most
// with a target user's, by Jaccard similarity over normalized merchant sets.
type SimilarityEngine struct {
	storage     service.Storage
	source      service.TransactionSource
	logger      *slog.Logger
	concurrency int
}

// NewSimilarityEngine creates a similarity engine reading candidate users
// from storage and transaction windows from source.
func NewSimilarityEngine(storage service.Storage, source service.TransactionSource) *SimilarityEngine {
	return &SimilarityEngine{
		storage:     storage,
		source:      source,
		concurrency: 4,
		logger:      slog.Default().With("component", "similarity"),
	}
}

// FindMostSimilarUser returns the single most similar other user and the
// similarity coefficient over [start, end]. Candidate order is stable
// (sorted by user ID) so ties resolve deterministically to the first
// encountered. A zero result means the target has no usable data or no
// candidate overlaps at all.
func (s *SimilarityEngine) FindMostSimilarUser(ctx context.Context, userID string, start, end time.Time) (model.SimilarityResult, error) {
	target, err := s.merchantSetFor(ctx, userID, start, end)
	if err != nil {
		// No usable data source for the target user is not an error; there
		// is simply nothing to compare.
		s.logger.Debug("target user has no usable transaction source",
			"user", userID, "error", err)
		return model.SimilarityResult{}, nil
	}

	users, err := s.storage.GetUsers(ctx)
	if err != nil {
		return model.SimilarityResult{}, err
	}

	candidates := make([]string, 0, len(users))
	for _, user := range users {
		if user.ID != userID {
			candidates = append(candidates, user.ID)
		}
	}
	sort.Strings(candidates)

	snapshots := s.snapshot(ctx, candidates, start, end)

	var best model.SimilarityResult
	for _, candidateID := range candidates {
		set, ok := snapshots[candidateID]
		if !ok {
			continue
		}

		similarity := jaccard(target, set)
		if similarity > best.Similarity {
			best = model.SimilarityResult{
				MostSimilarUserID: candidateID,
				Similarity:        similarity,
			}
		}
	}

	if best.Found() {
		s.logger.Debug("found most similar user",
			"user", userID,
			"similar_user", best.MostSimilarUserID,
			"similarity", best.Similarity)
	}

	return best, nil
}

// snapshot fetches every candidate's merchant set once, through a bounded
// worker pool, so no candidate is refetched per comparison. Candidates whose
// source fails are skipped.
func (s *SimilarityEngine) snapshot(ctx context.Context, candidates []string, start, end time.Time) map[string]merchantSet {
	type snapshotResult struct {
		userID string
		set    merchantSet
	}

	sem := make(chan struct{}, s.concurrency)
	results := make(chan snapshotResult, len(candidates))

	var wg sync.WaitGroup
	for _, candidateID := range candidates {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			set, err := s.merchantSetFor(ctx, id, start, end)
			if err != nil {
				s.logger.Debug("skipping candidate without usable source",
					"user", id, "error", err)
				return
			}
			results <- snapshotResult{userID: id, set: set}
		}(candidateID)
	}

	wg.Wait()
	close(results)

	snapshots := make(map[string]merchantSet, len(candidates))
	for res := range results {
		snapshots[res.userID] = res.set
	}
	return snapshots
}

func (s *SimilarityEngine) merchantSetFor(ctx context.Context, userID string, start, end time.Time) (merchantSet, error) {
	transactions, err := s.source.GetTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	set := make(merchantSet, len(transactions))
	for i := range transactions {
		normalized := lexical.Normalize(transactions[i].MerchantName)
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set, nil
}
