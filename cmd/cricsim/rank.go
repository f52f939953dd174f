package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/cricsim/internal/adapters/repository"
	"github.com/okian/cricsim/internal/config"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/similarity"
	"github.com/okian/cricsim/internal/domain/types"
)

// rankInput selects where candidates come from. An empty input ranks the
// built-in sample.
type rankInput struct {
	csv   string
	dbURL string
	limit int
}

func (in *rankInput) flags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.csv, "csv", "", "Read candidates from this CSV file")
	cmd.Flags().StringVar(&in.dbURL, "db", "", "Read candidates from this database")
	cmd.Flags().IntVar(&in.limit, "limit", 0, "Number of results (default 20)")
}

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank similar players once and print the result as JSON",
	}
	cmd.AddCommand(rankBattersCmd())
	cmd.AddCommand(rankBowlersCmd())
	return cmd
}

func rankBattersCmd() *cobra.Command {
	var (
		in rankInput
		q  model.BattingQuery
	)

	cmd := &cobra.Command{
		Use:     "batters",
		Short:   "Rank batsmen by average and strike rate",
		Example: `  cricsim rank batters --csv batting_analysis.csv --average 53.4 --strike-rate 93.6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			candidates, err := loadCandidates(ctx, in, repository.ReadBattingCSV, repository.Store.Batters, cfg)
			if err != nil {
				return err
			}
			engine := similarity.NewEngine(engineOptions(cfg)...)
			results, rep := engine.RankBatters(q, candidates, in.limit)
			return printJSON(cmd.OutOrStdout(), types.BattingResult{Results: results, Fallback: rep.Fallback})
		},
	}

	in.flags(cmd)
	cmd.Flags().StringVar(&q.Player, "player", "", "Query player name (display only)")
	cmd.Flags().Float64Var(&q.Average, "average", 0, "Batting average")
	cmd.Flags().Float64Var(&q.StrikeRate, "strike-rate", 0, "Runs per 100 balls")
	_ = cmd.MarkFlagRequired("average")
	_ = cmd.MarkFlagRequired("strike-rate")

	return cmd
}

func rankBowlersCmd() *cobra.Command {
	var (
		in           rankInput
		q            model.BowlingQuery
		matches      float64
		careerLength float64
	)

	cmd := &cobra.Command{
		Use:     "bowlers",
		Short:   "Rank bowlers by wickets, economy and strike rate",
		Example: `  cricsim rank bowlers --db sqlite:///cricsim.db --wickets 149 --economy 4.6 --strike-rate 31.2 --matches 89`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("matches") {
				q.Matches = model.Float(matches)
			}
			if cmd.Flags().Changed("career-length") {
				q.CareerLength = model.Float(careerLength)
			}
			candidates, err := loadCandidates(ctx, in, repository.ReadBowlingCSV, repository.Store.Bowlers, cfg)
			if err != nil {
				return err
			}
			engine := similarity.NewEngine(engineOptions(cfg)...)
			results, rep := engine.RankBowlers(q, candidates, in.limit)
			return printJSON(cmd.OutOrStdout(), types.BowlingResult{Results: results, Fallback: rep.Fallback})
		},
	}

	in.flags(cmd)
	cmd.Flags().StringVar(&q.Player, "player", "", "Query player name (display only)")
	cmd.Flags().Float64Var(&q.Wickets, "wickets", 0, "Career wickets")
	cmd.Flags().Float64Var(&q.Economy, "economy", 0, "Runs conceded per over")
	cmd.Flags().Float64Var(&q.StrikeRate, "strike-rate", 0, "Balls per wicket")
	cmd.Flags().Float64Var(&matches, "matches", 0, "Matches played; enables five-feature comparison")
	cmd.Flags().Float64Var(&careerLength, "career-length", 0, "Seasons played; enables five-feature comparison")
	_ = cmd.MarkFlagRequired("wickets")
	_ = cmd.MarkFlagRequired("economy")
	_ = cmd.MarkFlagRequired("strike-rate")

	return cmd
}

var errTwoSources = errors.New("--csv and --db are mutually exclusive")

// loadCandidates reads candidates from a CSV file or a store. With neither
// set it falls back to the configured database, and then to no candidates.
func loadCandidates[T any](
	ctx context.Context,
	in rankInput,
	read func(io.Reader) ([]T, error),
	fetch func(repository.Store, context.Context, int) ([]T, error),
	cfg *config.Config,
) ([]T, error) {
	if in.csv != "" && in.dbURL != "" {
		return nil, errTwoSources
	}
	if in.csv != "" {
		f, err := os.Open(in.csv)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", in.csv, err)
		}
		defer f.Close()
		return read(f)
	}

	url := in.dbURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, nil
	}
	store, err := repository.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return fetch(store, ctx, cfg.CandidateLimit)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
