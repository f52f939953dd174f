package similarity

import (
	"math"
	"strings"

	"github.com/okian/cricsim/internal/domain/model"
)

// UsableBatters returns the records that have a player name and finite
// average and strike rate. Incomplete records are dropped, never imputed.
func UsableBatters(records []model.BattingRecord) []model.BattingRecord {
	out := make([]model.BattingRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if hasName(r.Player) && finite(r.Average) && finite(r.StrikeRate) {
			out = append(out, *r)
		}
	}
	return out
}

// UsableBowlers returns the records that have a player name, wickets and
// finite economy and strike rate. Extended mode also requires matches and
// career length.
func UsableBowlers(records []model.BowlingRecord, extended bool) []model.BowlingRecord {
	out := make([]model.BowlingRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if !hasName(r.Player) || r.Wickets == nil || !finite(r.Economy) || !finite(r.StrikeRate) {
			continue
		}
		if extended && (r.Matches == nil || r.CareerLength == nil) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

func hasName(s string) bool {
	return strings.TrimSpace(s) != ""
}

func finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}
