package probe

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Value ranges loosely follow one-day international careers.
const (
	firstSeason   = 1975
	lastSeason    = 2024
	maxCareer     = 20
	maxBatAverage = 60.0
	minBatSR      = 55.0
	maxBatSR      = 130.0
	maxWickets    = 500
	minEconomy    = 3.5
	maxEconomy    = 7.0
	minBowlSR     = 20.0
	maxBowlSR     = 60.0
)

// generator produces synthetic players with unique names.
type generator struct {
	rnd *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *generator) between(lo, hi float64) float64 {
	return round2(lo + g.rnd.Float64()*(hi-lo))
}

func (g *generator) career() (start, end int) {
	start = firstSeason + g.rnd.IntN(lastSeason-firstSeason)
	end = min(start+g.rnd.IntN(maxCareer), lastSeason)
	return start, end
}

func (g *generator) batter() batter {
	start, end := g.career()
	matches := 1 + g.rnd.IntN(450)
	avg := g.between(1, maxBatAverage)
	return batter{
		Player:     "probe-bat-" + uuid.NewString(),
		Matches:    matches,
		Runs:       int(avg * float64(matches) * 0.8),
		Average:    avg,
		StrikeRate: g.between(minBatSR, maxBatSR),
		StartYear:  start,
		EndYear:    end,
	}
}

func (g *generator) bowler() bowler {
	start, end := g.career()
	return bowler{
		Player:     "probe-bowl-" + uuid.NewString(),
		Matches:    1 + g.rnd.IntN(350),
		Wickets:    g.rnd.IntN(maxWickets),
		Economy:    g.between(minEconomy, maxEconomy),
		StrikeRate: g.between(minBowlSR, maxBowlSR),
		StartYear:  start,
		EndYear:    end,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
