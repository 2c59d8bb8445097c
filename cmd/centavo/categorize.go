package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/config"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <merchant-name>",
		Short: "Categorize a single merchant name",
		Long: `Resolves a raw merchant name to a spending category and prints the
result with its confidence score. Resolved names are remembered, so
repeat lookups are served from the alias table.`,
		Args: cobra.ExactArgs(1),
		RunE: runCategorize,
	}

	cmd.Flags().String("user", "", "user ID owning any newly created category")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	merchantName := args[0]
	userID, _ := cmd.Flags().GetString("user")

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

	result, err := categorizer.Categorize(ctx, merchantName, userID)
	if err != nil {
		return fmt.Errorf("failed to categorize %q: %w", merchantName, err)
	}

	cmd.Printf("%s -> %s (confidence %.1f)\n",
		merchantName, result.Category.Name, result.Confidence)
	if result.MatchedAlias != "" && result.MatchedAlias != merchantName {
		cmd.Printf("  matched via %q\n", result.MatchedAlias)
	}

	return nil
}
