package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRecord marks a player record rejected by Normalize.
var ErrInvalidRecord = errors.New("invalid player record")

// Normalize trims the player name, checks counts and rates are non-negative
// and the career years are ordered, and derives CareerLength from the years
// when it is unset.
func (r *BattingRecord) Normalize() error {
	r.Player = strings.TrimSpace(r.Player)
	if r.Player == "" {
		return fmt.Errorf("%w: player is required", ErrInvalidRecord)
	}
	if r.Matches < 0 || r.Runs < 0 || r.Fours < 0 || r.Sixes < 0 || r.CareerLength < 0 {
		return fmt.Errorf("%w: %s: counts must not be negative", ErrInvalidRecord, r.Player)
	}
	if err := checkRate(r.Player, "average", r.Average); err != nil {
		return err
	}
	if err := checkRate(r.Player, "strike_rate", r.StrikeRate); err != nil {
		return err
	}
	if err := checkYears(r.Player, r.StartYear, r.EndYear); err != nil {
		return err
	}
	if r.CareerLength == 0 {
		r.CareerLength = CareerSpan(r.StartYear, r.EndYear)
	}
	return nil
}

// Normalize applies the same checks as BattingRecord.Normalize.
func (r *BowlingRecord) Normalize() error {
	r.Player = strings.TrimSpace(r.Player)
	if r.Player == "" {
		return fmt.Errorf("%w: player is required", ErrInvalidRecord)
	}
	for _, p := range []*int{r.Matches, r.Wickets, r.CareerLength} {
		if p != nil && *p < 0 {
			return fmt.Errorf("%w: %s: counts must not be negative", ErrInvalidRecord, r.Player)
		}
	}
	if err := checkRate(r.Player, "economy", r.Economy); err != nil {
		return err
	}
	if err := checkRate(r.Player, "strike_rate", r.StrikeRate); err != nil {
		return err
	}
	if err := checkYears(r.Player, r.StartYear, r.EndYear); err != nil {
		return err
	}
	if r.CareerLength == nil {
		if n := CareerSpan(r.StartYear, r.EndYear); n > 0 {
			r.CareerLength = &n
		}
	}
	return nil
}

func checkRate(player, name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return fmt.Errorf("%w: %s: %s must be a non-negative number", ErrInvalidRecord, player, name)
	}
	return nil
}

func checkYears(player string, start, end int) error {
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: %s: years must not be negative", ErrInvalidRecord, player)
	}
	if start > 0 && end > 0 && end < start {
		return fmt.Errorf("%w: %s: end_year %d is before start_year %d", ErrInvalidRecord, player, end, start)
	}
	return nil
}
