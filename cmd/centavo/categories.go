package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/config"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				cmd.Println("No categories yet.")
				return nil
			}

			for _, cat := range categories {
				if cat.IsShared() {
					cmd.Printf("%-4d %s\n", cat.ID, cat.Name)
				} else {
					cmd.Printf("%-4d %s (user %s)\n", cat.ID, cat.Name, *cat.OwnerUserID)
				}
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			user, _ := cmd.Flags().GetString("user")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var owner *string
			if user != "" {
				owner = &user
			}

			cat, err := store.GetOrCreateCategory(ctx, name, owner)
			if err != nil {
				return fmt.Errorf("failed to add category %q: %w", name, err)
			}

			cmd.Printf("Category %q ready (id %d).\n", cat.Name, cat.ID)
			return nil
		},
	}

	cmd.Flags().String("user", "", "create as a user-owned category instead of site-wide")

	return cmd
}
