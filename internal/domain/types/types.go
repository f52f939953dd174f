// Package types contains common types used across the application
package types

// RankedBatter is one row of a batting similarity result. Distance is the
// discounted distance the ranking was computed on.
type RankedBatter struct {
	Player     string  `json:"player"`
	Average    float64 `json:"average"`
	StrikeRate float64 `json:"strike_rate"`
	Runs       int     `json:"runs"`
	Matches    int     `json:"matches"`
	Distance   float64 `json:"distance"`
}

// RankedBowler is one row of a bowling similarity result.
type RankedBowler struct {
	Player     string  `json:"player"`
	Wickets    int     `json:"wickets"`
	Economy    float64 `json:"economy"`
	StrikeRate float64 `json:"strike_rate"`
	Matches    int     `json:"matches"`
	Distance   float64 `json:"distance"`
}

// BattingResult is what the service returns for a batting query.
type BattingResult struct {
	Results  []RankedBatter `json:"results"`
	Fallback bool           `json:"fallback"`
}

// BowlingResult is what the service returns for a bowling query.
type BowlingResult struct {
	Results  []RankedBowler `json:"results"`
	Fallback bool           `json:"fallback"`
}
