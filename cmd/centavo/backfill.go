package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/config"
)

func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Categorize all uncategorized transactions",
		Long: `Runs the categorization engine over every transaction that has no
category yet and writes the results back. Transactions the engine
cannot resolve are marked Uncategorized.`,
		RunE: runBackfill,
	}

	cmd.Flags().Bool("dry-run", false, "resolve categories without writing them back")

	return cmd
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categorizer, err := buildCategorizer(cfg, store)
	if err != nil {
		return err
	}

	transactions, err := store.GetUncategorizedTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}
	if len(transactions) == 0 {
		cmd.Println("Nothing to backfill.")
		return nil
	}

	bar := progressbar.NewOptions(len(transactions),
		progressbar.OptionSetDescription("Categorizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var updated, failed int
	for _, txn := range transactions {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := categorizer.Categorize(ctx, txn.MerchantName, txn.UserID)
		if err != nil && common.IsRetryable(err) {
			result, err = categorizer.Categorize(ctx, txn.MerchantName, txn.UserID)
		}
		if err != nil {
			failed++
			common.LogError(err, "backfill categorization failed", common.Fields{
				"transaction_id": txn.ID,
				"merchant":       txn.MerchantName,
			})
			_ = bar.Add(1)
			continue
		}

		if !dryRun {
			if err := store.UpdateTransactionCategory(ctx, txn.ID, result.Category.Name); err != nil {
				failed++
				common.LogError(err, "backfill update failed", common.Fields{
					"transaction_id": txn.ID,
				})
				_ = bar.Add(1)
				continue
			}
		}

		updated++
		_ = bar.Add(1)
	}

	_ = bar.Finish()
	common.LogInfo("backfill complete", common.Fields{
		"categorized": updated,
		"failed":      failed,
		"dry_run":     dryRun,
	})
	cmd.Printf("Backfill complete: %d categorized, %d failed", updated, failed)
	if dryRun {
		cmd.Print(" (dry run, nothing written)")
	}
	cmd.Println()

	return nil
}
