package pipeline

import (
	"math"
	"sort"

	"lifereg/domain/core"
	"lifereg/domain/dataset"
	"lifereg/internal/errors"
)

// Aggregator collapses long observations within a closed year window
// into one year-averaged value per (country, indicator).
type Aggregator struct {
	YearStart int
	YearEnd   int
}

// NewAggregator creates an aggregator over the closed window [start, end].
func NewAggregator(start, end int) *Aggregator {
	return &Aggregator{YearStart: start, YearEnd: end}
}

type groupKey struct {
	country   string
	indicator core.IndicatorKey
}

// Aggregate restricts observations to the year window, groups by
// (country, indicator), and averages the present values. Duplicate
// (country, indicator, year) cells all enter the mean, so duplicates
// are averaged rather than picked. A group with every value missing
// yields a missing aggregate. Countries whose entire row would be
// missing are absent from the output, as are countries with no
// observations inside the window.
func (a *Aggregator) Aggregate(obs []dataset.Observation) (*dataset.CountryMatrix, error) {
	if a.YearStart > a.YearEnd {
		return nil, errors.InvalidInput("aggregation year window is empty")
	}

	sums := make(map[groupKey]float64)
	counts := make(map[groupKey]int)
	seen := make(map[groupKey]bool)
	countrySet := make(map[string]bool)
	indicatorSet := make(map[core.IndicatorKey]bool)

	for _, o := range obs {
		if o.Year < a.YearStart || o.Year > a.YearEnd {
			continue
		}
		key := groupKey{country: o.Country, indicator: o.Indicator}
		seen[key] = true
		countrySet[o.Country] = true
		indicatorSet[o.Indicator] = true
		if o.Missing() {
			continue
		}
		sums[key] += o.Value
		counts[key]++
	}

	// Sorted axes keep the pivot deterministic; row and column order
	// carry no meaning downstream.
	countries := make([]string, 0, len(countrySet))
	for c := range countrySet {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	indicators := make([]core.IndicatorKey, 0, len(indicatorSet))
	for ind := range indicatorSet {
		indicators = append(indicators, ind)
	}
	sort.Slice(indicators, func(i, j int) bool { return indicators[i] < indicators[j] })

	matrix := &dataset.CountryMatrix{
		Indicators: indicators,
	}
	for _, country := range countries {
		row := make([]float64, len(indicators))
		allMissing := true
		for j, ind := range indicators {
			key := groupKey{country: country, indicator: ind}
			if n := counts[key]; n > 0 {
				row[j] = sums[key] / float64(n)
				allMissing = false
			} else {
				row[j] = math.NaN()
			}
		}
		if allMissing {
			continue
		}
		matrix.Countries = append(matrix.Countries, country)
		matrix.Data = append(matrix.Data, row)
	}

	return matrix, nil
}
