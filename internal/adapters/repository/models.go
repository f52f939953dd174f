package repository

import (
	"strconv"
	"time"

	"github.com/okian/cricsim/internal/domain/model"
)

// battingRow is the batting_analysis table layout.
type battingRow struct {
	ID                uint   `gorm:"primaryKey"`
	Player            string `gorm:"uniqueIndex;not null"`
	Span              string
	Mat               int
	Runs              int
	Avg               *float64
	SR                *float64 `gorm:"column:sr"`
	Fours             int
	Sixes             int
	StartYear         int
	EndYear           int
	CareerLength      int
	PredictedCategory string
	UpdatedAt         time.Time
}

func (battingRow) TableName() string { return "batting_analysis" }

// bowlingRow is the bowling_analysis table layout.
type bowlingRow struct {
	ID                uint   `gorm:"primaryKey"`
	Player            string `gorm:"uniqueIndex;not null"`
	Span              string
	Mat               *int
	Wickets           *int
	Econ              *float64
	SR                *float64 `gorm:"column:sr"`
	StartYear         int
	EndYear           int
	CareerLength      *int
	PredictedCategory string
	UpdatedAt         time.Time
}

func (bowlingRow) TableName() string { return "bowling_analysis" }

func span(start, end int) string {
	if start <= 0 {
		return ""
	}
	if end <= 0 {
		end = start
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}

func toBattingRow(r model.BattingRecord) battingRow {
	return battingRow{
		Player:            r.Player,
		Span:              span(r.StartYear, r.EndYear),
		Mat:               r.Matches,
		Runs:              r.Runs,
		Avg:               r.Average,
		SR:                r.StrikeRate,
		Fours:             r.Fours,
		Sixes:             r.Sixes,
		StartYear:         r.StartYear,
		EndYear:           r.EndYear,
		CareerLength:      r.CareerLength,
		PredictedCategory: r.Category,
	}
}

func (b battingRow) toDomain() model.BattingRecord {
	return model.BattingRecord{
		Player:       b.Player,
		Matches:      b.Mat,
		Runs:         b.Runs,
		Average:      b.Avg,
		StrikeRate:   b.SR,
		Fours:        b.Fours,
		Sixes:        b.Sixes,
		StartYear:    b.StartYear,
		EndYear:      b.EndYear,
		CareerLength: b.CareerLength,
		Category:     b.PredictedCategory,
	}
}

func toBowlingRow(r model.BowlingRecord) bowlingRow {
	return bowlingRow{
		Player:            r.Player,
		Span:              span(r.StartYear, r.EndYear),
		Mat:               r.Matches,
		Wickets:           r.Wickets,
		Econ:              r.Economy,
		SR:                r.StrikeRate,
		StartYear:         r.StartYear,
		EndYear:           r.EndYear,
		CareerLength:      r.CareerLength,
		PredictedCategory: r.Category,
	}
}

func (b bowlingRow) toDomain() model.BowlingRecord {
	return model.BowlingRecord{
		Player:       b.Player,
		Matches:      b.Mat,
		Wickets:      b.Wickets,
		Economy:      b.Econ,
		StrikeRate:   b.SR,
		StartYear:    b.StartYear,
		EndYear:      b.EndYear,
		CareerLength: b.CareerLength,
		Category:     b.PredictedCategory,
	}
}
