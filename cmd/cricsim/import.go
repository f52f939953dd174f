package main

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/cricsim/internal/adapters/repository"
	"github.com/okian/cricsim/pkg/logger"
)

var (
	errNoInput    = errors.New("at least one of --batting or --bowling is required")
	errNoDatabase = errors.New("--db or CRICSIM_DATABASE_URL is required")
)

func importCmd() *cobra.Command {
	var (
		dbURL   string
		batting string
		bowling string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load batting and bowling CSV files into the player store",
		Example: `  cricsim import --db sqlite:///data/cricsim.db \
    --batting batting_analysis.csv --bowling bowling_analysis.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if batting == "" && bowling == "" {
				return errNoInput
			}
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			if dbURL == "" {
				dbURL = cfg.DatabaseURL
			}
			if dbURL == "" {
				return errNoDatabase
			}

			store, err := repository.Open(ctx, dbURL)
			if err != nil {
				return err
			}
			defer store.Close()

			var batters, bowlers int
			g, gctx := errgroup.WithContext(ctx)
			if batting != "" {
				g.Go(func() error {
					n, err := repository.ImportBattingCSV(gctx, store, batting)
					batters = n
					return err
				})
			}
			if bowling != "" {
				g.Go(func() error {
					n, err := repository.ImportBowlingCSV(gctx, store, bowling)
					bowlers = n
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			counts, err := store.Count(ctx)
			if err != nil {
				return err
			}
			logger.Get().Info(ctx, "import finished",
				logger.Int("battersImported", batters),
				logger.Int("bowlersImported", bowlers),
				logger.Int("battersStored", counts.Batters),
				logger.Int("bowlersStored", counts.Bowlers),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbURL, "db", "", "Database URL: sqlite:///path or postgres://...")
	cmd.Flags().StringVar(&batting, "batting", "", "Batting CSV file")
	cmd.Flags().StringVar(&bowling, "bowling", "", "Bowling CSV file")

	return cmd
}
