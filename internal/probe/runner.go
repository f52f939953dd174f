package probe

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/cricsim/pkg/logger"
)

// counters are shared by the request goroutines.
type counters struct {
	ingested   atomic.Int64
	rejected   atomic.Int64
	queries    atomic.Int64
	fallbacks  atomic.Int64
	found      atomic.Int64
	violations atomic.Int64
}

// Run ingests synthetic players into the server at cfg.BaseURL, waits for
// them to be stored, then ranks against them and checks every response.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	start := time.Now()
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU() * 2
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(start.UnixNano())
	}
	if cfg.DefaultLimit < 1 {
		cfg.DefaultLimit = defaultServerLimit
	}
	log := logger.Named("probe")
	log.Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("queries", cfg.Queries),
		logger.Int("workers", cfg.Workers),
		logger.Int("limit", cfg.Limit),
		logger.Int("defaultLimit", cfg.DefaultLimit),
		logger.Any("seed", cfg.Seed),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	status, err := c.get(ctx, "/healthz")
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return Stats{}, fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}

	gen := newGenerator(cfg.Seed)
	batters := make([]batter, cfg.Players)
	bowlers := make([]bowler, cfg.Players)
	for i := range cfg.Players {
		batters[i] = gen.batter()
		bowlers[i] = gen.bowler()
	}

	var n counters
	if err := ingest(ctx, c, cfg.Workers, batters, bowlers, &n); err != nil {
		return Stats{}, err
	}
	log.Info(ctx, "players submitted",
		logger.Int("accepted", int(n.ingested.Load())),
		logger.Int("rejected", int(n.rejected.Load())),
	)

	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-time.After(cfg.Settle):
	}

	if err := query(ctx, c, cfg, gen, batters, bowlers, &n); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Ingested:   int(n.ingested.Load()),
		Rejected:   int(n.rejected.Load()),
		Queries:    int(n.queries.Load()),
		Fallbacks:  int(n.fallbacks.Load()),
		Found:      int(n.found.Load()),
		Violations: int(n.violations.Load()),
		Duration:   time.Since(start),
	}
	log.Info(ctx, "probe finished",
		logger.Int("ingested", stats.Ingested),
		logger.Int("rejected", stats.Rejected),
		logger.Int("queries", stats.Queries),
		logger.Int("fallbacks", stats.Fallbacks),
		logger.Int("found", stats.Found),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
	)
	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d responses", ErrViolations, stats.Violations)
	}
	return stats, nil
}

func ingest(ctx context.Context, c *client, workers int, batters []batter, bowlers []bowler, n *counters) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	submit := func(path string, body any) func() error {
		return func() error {
			status, err := c.post(gctx, path, body, nil)
			if err != nil {
				return err
			}
			if status == http.StatusAccepted {
				n.ingested.Add(1)
			} else {
				n.rejected.Add(1)
			}
			return nil
		}
	}
	for i := range batters {
		g.Go(submit("/v1/players/batting", batters[i]))
		g.Go(submit("/v1/players/bowling", bowlers[i]))
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}

func query(ctx context.Context, c *client, cfg Config, gen *generator, batters []batter, bowlers []bowler, n *counters) error {
	if len(batters) == 0 {
		return nil
	}
	log := logger.Named("probe")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	check := func(variant, want string, resp *rankResponse) {
		n.queries.Add(1)
		if resp.Fallback {
			n.fallbacks.Add(1)
		}
		if contains(resp.Results, want) {
			n.found.Add(1)
		}
		if err := checkRanking(resp.Results, cfg.Limit, cfg.DefaultLimit); err != nil {
			n.violations.Add(1)
			log.Warn(gctx, "ranking check failed",
				logger.String("variant", variant),
				logger.String("player", want),
				logger.Error(err),
			)
		}
	}

	for i := range cfg.Queries {
		b := batters[gen.rnd.IntN(len(batters))]
		w := bowlers[gen.rnd.IntN(len(bowlers))]
		extended := i%2 == 1

		g.Go(func() error {
			var resp rankResponse
			body := map[string]any{
				"player":      b.Player,
				"average":     b.Average,
				"strike_rate": b.StrikeRate,
				"limit":       cfg.Limit,
			}
			if _, err := c.post(gctx, "/v1/similar/batters", body, &resp); err != nil {
				return err
			}
			check("batting", b.Player, &resp)
			return nil
		})
		g.Go(func() error {
			var resp rankResponse
			body := map[string]any{
				"player":      w.Player,
				"wickets":     w.Wickets,
				"economy":     w.Economy,
				"strike_rate": w.StrikeRate,
				"limit":       cfg.Limit,
			}
			if extended {
				body["matches"] = w.Matches
				body["career_length"] = w.EndYear - w.StartYear + 1
			}
			if _, err := c.post(gctx, "/v1/similar/bowlers", body, &resp); err != nil {
				return err
			}
			check("bowling", w.Player, &resp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
