// Package model contains domain models passed between layers.
package model

// Variant selects which family of statistics a record or query describes.
type Variant string

// Supported variants.
const (
	Batting Variant = "batting"
	Bowling Variant = "bowling"
)

// BattingRecord is one batsman's career statistics as held by the candidate
// store. Features the engine compares are pointers so a missing value is
// distinguishable from zero.
type BattingRecord struct {
	Player       string   `json:"player"`
	Matches      int      `json:"matches"`
	Runs         int      `json:"runs"`
	Average      *float64 `json:"average"`
	StrikeRate   *float64 `json:"strike_rate"`
	Fours        int      `json:"fours"`
	Sixes        int      `json:"sixes"`
	StartYear    int      `json:"start_year"`
	EndYear      int      `json:"end_year"`
	CareerLength int      `json:"career_length"`
	Category     string   `json:"predicted_category,omitempty"`
}

// BowlingRecord is one bowler's career statistics. Economy is runs conceded
// per over, StrikeRate is balls per wicket.
type BowlingRecord struct {
	Player       string   `json:"player"`
	Matches      *int     `json:"matches"`
	Wickets      *int     `json:"wickets"`
	Economy      *float64 `json:"economy"`
	StrikeRate   *float64 `json:"strike_rate"`
	StartYear    int      `json:"start_year"`
	EndYear      int      `json:"end_year"`
	CareerLength *int     `json:"career_length"`
	Category     string   `json:"predicted_category,omitempty"`
}

// BattingQuery is the subject batsman being compared. Player is display-only.
type BattingQuery struct {
	Player     string
	Average    float64
	StrikeRate float64
}

// BowlingQuery is the subject bowler being compared. Matches and CareerLength
// are optional; supplying either switches to five-feature distance.
type BowlingQuery struct {
	Player       string
	Wickets      float64
	Economy      float64
	StrikeRate   float64
	Matches      *float64
	CareerLength *float64
}

// Extended reports whether the query carries any of the optional features.
func (q BowlingQuery) Extended() bool {
	return q.Matches != nil || q.CareerLength != nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// CareerSpan returns the inclusive number of seasons between start and end,
// or 0 when either year is unknown.
func CareerSpan(start, end int) int {
	if start <= 0 || end < start {
		return 0
	}
	return end - start + 1
}
