// Package probe drives a running cricsim server with synthetic players and
// checks that the rankings it returns keep their ordering and size guarantees.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Players      int           // Synthetic players ingested per variant
	Queries      int           // Ranking queries per variant
	Workers      int           // Concurrent HTTP requests
	Limit        int           // limit sent with every query
	DefaultLimit int           // Server's limit when Limit is 0
	Timeout      time.Duration // HTTP request timeout
	Settle       time.Duration // Wait between ingestion and querying
	Seed         uint64        // Generator seed; 0 picks one from the clock
}

// defaultServerLimit matches the server's out-of-the-box default_limit.
const defaultServerLimit = 20

// Stats holds probe statistics.
type Stats struct {
	Ingested   int
	Rejected   int
	Queries    int
	Fallbacks  int
	Found      int
	Violations int
	Duration   time.Duration
}

// batter mirrors the ingest body of POST /v1/players/batting.
type batter struct {
	Player     string  `json:"player"`
	Matches    int     `json:"matches"`
	Runs       int     `json:"runs"`
	Average    float64 `json:"average"`
	StrikeRate float64 `json:"strike_rate"`
	StartYear  int     `json:"start_year"`
	EndYear    int     `json:"end_year"`
}

// bowler mirrors the ingest body of POST /v1/players/bowling.
type bowler struct {
	Player     string  `json:"player"`
	Matches    int     `json:"matches"`
	Wickets    int     `json:"wickets"`
	Economy    float64 `json:"economy"`
	StrikeRate float64 `json:"strike_rate"`
	StartYear  int     `json:"start_year"`
	EndYear    int     `json:"end_year"`
}

// row is the part of a ranked result the probe checks.
type row struct {
	Player   string  `json:"player"`
	Distance float64 `json:"distance"`
}

type rankResponse struct {
	Results  []row `json:"results"`
	Fallback bool  `json:"fallback"`
}
