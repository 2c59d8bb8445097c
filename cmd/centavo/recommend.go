package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/config"
	"github.com/centavo-app/centavo/internal/recommend"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <user-id> <category>",
		Short: "Recommend a replacement for a category",
		Long: `Scores replacement categories for the given user and category from
three signals: the user's own overwrites, the overwrites of the most
similar user this month, and overwrites across all users. Falls back
to a static mapping when no signal is available.`,
		Args: cobra.ExactArgs(2),
		RunE: runRecommend,
	}

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID, category := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recommender, err := buildRecommender(cfg, store)
	if err != nil {
		return err
	}

	rec, err := recommender.Recommend(ctx, userID, category)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = recommend.Fallback(category)
		cmd.Printf("%s -> %s (fallback, confidence %.2f)\n",
			category, rec.RecommendedCategory, rec.Confidence)
		return nil
	}

	cmd.Printf("%s -> %s (confidence %.2f)\n",
		category, rec.RecommendedCategory, rec.Confidence)
	if rec.SimilarUserID != "" {
		cmd.Printf("  most similar user: %s (similarity %.2f, window since %s)\n",
			rec.SimilarUserID, rec.Similarity,
			firstOfMonth(time.Now()).Format("2006-01-02"))
	}

	return nil
}

func firstOfMonth(now time.Time) time.Time {
	start, _ := recommend.MonthWindow(now)
	return start
}
