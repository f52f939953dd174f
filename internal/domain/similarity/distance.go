package similarity

import (
	"math"

	"github.com/okian/cricsim/internal/domain/model"
)

// Euclidean returns the Euclidean distance between a and b on their raw
// scale. Both vectors must have the same length.
func Euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// battingVector is {average, strike rate}. The record must be usable.
func battingVector(r *model.BattingRecord) []float64 {
	return []float64{*r.Average, *r.StrikeRate}
}

func battingQueryVector(q model.BattingQuery) []float64 {
	return []float64{q.Average, q.StrikeRate}
}

// bowlingVector is {wickets, economy, strike rate} and, in extended mode,
// {matches, career length} appended.
func bowlingVector(r *model.BowlingRecord, extended bool) []float64 {
	v := []float64{float64(*r.Wickets), *r.Economy, *r.StrikeRate}
	if extended {
		v = append(v, float64(*r.Matches), float64(*r.CareerLength))
	}
	return v
}

// bowlingQueryVector mirrors bowlingVector. A missing optional value counts
// as 0 so it still contributes to the distance.
func bowlingQueryVector(q model.BowlingQuery, extended bool) []float64 {
	v := []float64{q.Wickets, q.Economy, q.StrikeRate}
	if extended {
		v = append(v, valueOrZero(q.Matches), valueOrZero(q.CareerLength))
	}
	return v
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
