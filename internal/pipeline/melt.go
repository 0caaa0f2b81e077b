package pipeline

import (
	"math"
	"strconv"

	"lifereg/domain/core"
	"lifereg/domain/dataset"
	"lifereg/internal/errors"
)

// MeltOptions names the identifier columns of the wide layout. Every
// header that parses as a calendar year becomes a value column.
type MeltOptions struct {
	CountryColumn   string
	IndicatorColumn string
}

// Melt reshapes the labeled wide table (one column per year) into long
// (country, indicator, year, value) observations. Cells that fail to
// parse as numbers are treated as missing, never as zero.
func Melt(raw *dataset.RawTable, opts MeltOptions) ([]dataset.Observation, error) {
	countryIdx := raw.ColumnIndex(opts.CountryColumn)
	if countryIdx < 0 {
		return nil, errors.SchemaMismatch(opts.CountryColumn)
	}
	indicatorIdx := raw.ColumnIndex(opts.IndicatorColumn)
	if indicatorIdx < 0 {
		return nil, errors.SchemaMismatch(opts.IndicatorColumn)
	}

	type yearColumn struct {
		index int
		year  int
	}
	var yearCols []yearColumn
	for i, h := range raw.Headers {
		if year, err := strconv.Atoi(h); err == nil && year >= 1900 && year <= 2200 {
			yearCols = append(yearCols, yearColumn{index: i, year: year})
		}
	}
	if len(yearCols) == 0 {
		return nil, errors.InvalidInput("no per-year columns found in header")
	}

	var obs []dataset.Observation
	for _, row := range raw.Rows {
		country := row[countryIdx]
		indicator := core.IndicatorKey(row[indicatorIdx])
		if country == "" || indicator == "" {
			continue
		}
		for _, yc := range yearCols {
			value := math.NaN()
			if cell := row[yc.index]; cell != "" {
				if parsed, err := strconv.ParseFloat(cell, 64); err == nil {
					value = parsed
				}
			}
			obs = append(obs, dataset.Observation{
				Country:   country,
				Indicator: indicator,
				Year:      yc.year,
				Value:     value,
			})
		}
	}

	return obs, nil
}
