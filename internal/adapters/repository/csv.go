package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/cricsim/internal/domain/model"
)

// Header aliases accepted by the CSV readers. Matching is case-insensitive.
var (
	battingColumns = map[string][]string{
		"player":        {"player", "name"},
		"mat":           {"mat", "matches"},
		"runs":          {"runs"},
		"avg":           {"avg", "average"},
		"sr":            {"sr", "strike_rate"},
		"fours":         {"fours", "4s"},
		"sixes":         {"sixes", "6s"},
		"start_year":    {"start_year"},
		"end_year":      {"end_year"},
		"career_length": {"career_length"},
		"category":      {"predicted_category", "category"},
	}
	bowlingColumns = map[string][]string{
		"player":        {"player", "name"},
		"mat":           {"mat", "matches"},
		"wickets":       {"wickets", "wkts"},
		"econ":          {"econ", "economy"},
		"sr":            {"sr", "strike_rate"},
		"start_year":    {"start_year"},
		"end_year":      {"end_year"},
		"career_length": {"career_length"},
		"category":      {"predicted_category", "category"},
	}
)

// csvRow resolves named cells of one record.
type csvRow struct {
	line   int
	cells  []string
	lookup map[string]int
}

func (r csvRow) text(key string) string {
	i, ok := r.lookup[key]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func blank(s string) bool {
	return s == "" || s == "-" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nan")
}

func (r csvRow) decimal(key string) (*float64, error) {
	s := r.text(key)
	if blank(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformedCSV, r.line, key, err)
	}
	return &v, nil
}

func (r csvRow) count(key string) (*int, error) {
	s := r.text(key)
	if blank(s) {
		return nil, nil
	}
	// Counts are sometimes exported as "12.0".
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformedCSV, r.line, key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: line %d column %s: %q is not a whole number", ErrMalformedCSV, r.line, key, s)
	}
	n := int(v)
	return &n, nil
}

func (r csvRow) countOrZero(key string) (int, error) {
	p, err := r.count(key)
	if err != nil || p == nil {
		return 0, err
	}
	return *p, nil
}

// ReadBattingCSV parses batting records from a headered CSV stream. Blank
// numeric cells become missing values. A player column is required.
func ReadBattingCSV(in io.Reader) ([]model.BattingRecord, error) {
	var out []model.BattingRecord
	err := readCSV(in, battingColumns, func(row csvRow) error {
		var (
			rec  = model.BattingRecord{Player: row.text("player"), Category: row.text("category")}
			errs []error
			err  error
		)
		rec.Average, err = row.decimal("avg")
		errs = append(errs, err)
		rec.StrikeRate, err = row.decimal("sr")
		errs = append(errs, err)
		rec.Matches, err = row.countOrZero("mat")
		errs = append(errs, err)
		rec.Runs, err = row.countOrZero("runs")
		errs = append(errs, err)
		rec.Fours, err = row.countOrZero("fours")
		errs = append(errs, err)
		rec.Sixes, err = row.countOrZero("sixes")
		errs = append(errs, err)
		rec.StartYear, err = row.countOrZero("start_year")
		errs = append(errs, err)
		rec.EndYear, err = row.countOrZero("end_year")
		errs = append(errs, err)
		rec.CareerLength, err = row.countOrZero("career_length")
		errs = append(errs, err)
		if err := errors.Join(errs...); err != nil {
			return err
		}
		if rec.CareerLength == 0 {
			rec.CareerLength = model.CareerSpan(rec.StartYear, rec.EndYear)
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// ReadBowlingCSV parses bowling records from a headered CSV stream.
func ReadBowlingCSV(in io.Reader) ([]model.BowlingRecord, error) {
	var out []model.BowlingRecord
	err := readCSV(in, bowlingColumns, func(row csvRow) error {
		var (
			rec  = model.BowlingRecord{Player: row.text("player"), Category: row.text("category")}
			errs []error
			err  error
		)
		rec.Matches, err = row.count("mat")
		errs = append(errs, err)
		rec.Wickets, err = row.count("wickets")
		errs = append(errs, err)
		rec.Economy, err = row.decimal("econ")
		errs = append(errs, err)
		rec.StrikeRate, err = row.decimal("sr")
		errs = append(errs, err)
		rec.StartYear, err = row.countOrZero("start_year")
		errs = append(errs, err)
		rec.EndYear, err = row.countOrZero("end_year")
		errs = append(errs, err)
		rec.CareerLength, err = row.count("career_length")
		errs = append(errs, err)
		if err := errors.Join(errs...); err != nil {
			return err
		}
		if rec.CareerLength == nil {
			if n := model.CareerSpan(rec.StartYear, rec.EndYear); n > 0 {
				rec.CareerLength = &n
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func readCSV(in io.Reader, columns map[string][]string, fn func(csvRow) error) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: missing header", ErrMalformedCSV)
		}
		return fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}

	lookup := make(map[string]int, len(columns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for key, aliases := range columns {
			for _, a := range aliases {
				if h == a {
					if _, seen := lookup[key]; !seen {
						lookup[key] = i
					}
				}
			}
		}
	}
	if _, ok := lookup["player"]; !ok {
		return fmt.Errorf("%w: player column is required", ErrMalformedCSV)
	}

	for line := 2; ; line++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		if err := fn(csvRow{line: line, cells: cells, lookup: lookup}); err != nil {
			return err
		}
	}
}

// ImportBattingCSV reads path and upserts every named record into s.
// It returns the number of records written.
func ImportBattingCSV(ctx context.Context, s Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadBattingCSV(f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	n := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Player) == "" {
			continue
		}
		if err := s.UpsertBatter(ctx, rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ImportBowlingCSV reads path and upserts every named record into s.
func ImportBowlingCSV(ctx context.Context, s Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadBowlingCSV(f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	n := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Player) == "" {
			continue
		}
		if err := s.UpsertBowler(ctx, rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
