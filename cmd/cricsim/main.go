// Package main is the entry point for the cricsim CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/cricsim/internal/config"
	"github.com/okian/cricsim/internal/domain/similarity"
	"github.com/okian/cricsim/pkg/logger"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cricsim",
		Short:   "Cricket player similarity service",
		Long:    `cricsim ranks batsmen and bowlers by how closely their career statistics match a query player.`,
		Version: version + " (" + commit + ")",

		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(rankCmd())
	cmd.AddCommand(probeCmd())

	return cmd
}

// setup loads configuration and initializes the global logger from it.
func setup(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// engineOptions maps configuration onto similarity engine options.
func engineOptions(cfg *config.Config) []similarity.Option {
	opts := []similarity.Option{
		similarity.WithDiscount(cfg.FamousDiscount),
		similarity.WithDefaultLimit(cfg.DefaultLimit),
		similarity.WithExtendedBowling(cfg.ExtendedBowling),
	}
	if len(cfg.BattingFamous) > 0 {
		opts = append(opts, similarity.WithBattingAllowList(cfg.BattingFamous))
	}
	if len(cfg.BowlingFamous) > 0 {
		opts = append(opts, similarity.WithBowlingAllowList(cfg.BowlingFamous))
	}
	return opts
}
