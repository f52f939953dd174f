package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/cricsim/internal/probe"
)

func probeCmd() *cobra.Command {
	var cfg probe.Config

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exercise a running server and verify its rankings",
		Long: `Submit synthetic players to a running server, wait for them to be stored,
then query with their statistics and check every response is ordered and
no longer than the requested limit. Exits non-zero on any violation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			appCfg, err := setup(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("default-limit") {
				cfg.DefaultLimit = appCfg.DefaultLimit
			}
			_, err = probe.Run(ctx, cfg)
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	cmd.Flags().IntVar(&cfg.Players, "players", 200, "Synthetic players per variant")
	cmd.Flags().IntVar(&cfg.Queries, "queries", 100, "Queries per variant")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "Concurrent requests (default CPU cores * 2)")
	cmd.Flags().IntVar(&cfg.Limit, "limit", 50, "limit sent with every query")
	cmd.Flags().IntVar(&cfg.DefaultLimit, "default-limit", 0, "Server default limit checked when --limit is 0 (default from config)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().DurationVar(&cfg.Settle, "settle", 2*time.Second, "Wait between ingestion and querying")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (default from clock)")

	return cmd
}
