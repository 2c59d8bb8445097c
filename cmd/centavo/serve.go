package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/centavo-app/centavo/internal/config"
	"github.com/centavo-app/centavo/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Starts the HTTP API exposing categorization and recommendation
endpoints. The server shuts down gracefully on interrupt.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	categorizer, err := buildCategorizer(cfg, store)
	if err != nil {
		return err
	}

	recommender, err := buildRecommender(cfg, store)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server.Addr, categorizer, recommender, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
