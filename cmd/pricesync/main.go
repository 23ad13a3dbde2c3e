package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"finances/internal/config"
	"finances/internal/database"
	"finances/internal/logger"
	"finances/internal/provider"
	"finances/internal/repository"
	"finances/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "pricesync",
	Short:         "Refresh the cached fiat currency prices",
	Long:          "Fetch fiat exchange rates from the upstream provider and store them in the currency price cache.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOnce,
}

func init() {
	rootCmd.Flags().Duration("every", 0, "keep running and refresh on this interval (e.g. 1h)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Named("pricesync")

	if cfg.FCSAPIKey == "" {
		return fmt.Errorf("FCS_API_KEY is not set")
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	fiat := provider.NewFCSClient(cfg.FCSAPIKey,
		provider.WithBaseURL(cfg.FCSBaseURL),
		provider.WithRateLimit(cfg.PriceRateLimit),
		provider.WithTimeout(cfg.PriceTimeout),
	)
	svc := services.NewPriceSyncService(repository.New(dbManager.DB()), fiat)

	every, err := cmd.Flags().GetDuration("every")
	if err != nil {
		return err
	}
	if every > 0 {
		svc.Run(cmd.Context(), every)
		return nil
	}

	result, err := svc.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	log.Infow("currency prices refreshed",
		"pairs_fetched", result.PairsFetched,
		"prices_stored", result.PricesStored,
		"skipped", result.Skipped,
		"duration", result.Duration.Round(time.Millisecond),
	)
	if len(result.UncoveredBase) > 0 {
		log.Warnf("no prices for base currencies: %s", strings.Join(result.UncoveredBase, ", "))
	}
	return nil
}
