package pipeline

import (
	"math"
	"testing"

	"lifereg/domain/core"
	"lifereg/domain/dataset"
)

func obsValue(country string, indicator core.IndicatorKey, year int, value float64) dataset.Observation {
	return dataset.Observation{Country: country, Indicator: indicator, Year: year, Value: value}
}

func obsMissing(country string, indicator core.IndicatorKey, year int) dataset.Observation {
	return dataset.Observation{Country: country, Indicator: indicator, Year: year, Value: math.NaN()}
}

func TestAggregator_ThreeCountriesTwoIndicatorsTwoYears(t *testing.T) {
	// No missing values: every cell must equal the arithmetic mean of
	// the two year values.
	agg := NewAggregator(2016, 2017)

	var obs []dataset.Observation
	countries := []string{"Chile", "Ghana", "Norway"}
	for ci, country := range countries {
		for ii, ind := range []core.IndicatorKey{"IND.A", "IND.B"} {
			for yi, year := range []int{2016, 2017} {
				obs = append(obs, obsValue(country, ind, year, float64(ci*100+ii*10+yi)))
			}
		}
	}

	matrix, err := agg.Aggregate(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix.Countries) != 3 {
		t.Fatalf("expected 3 countries, got %d", len(matrix.Countries))
	}
	if len(matrix.Indicators) != 2 {
		t.Fatalf("expected 2 indicator columns, got %d", len(matrix.Indicators))
	}

	for i, country := range matrix.Countries {
		ci := indexOf(countries, country)
		for j, ind := range matrix.Indicators {
			ii := 0
			if ind == "IND.B" {
				ii = 1
			}
			want := (float64(ci*100+ii*10) + float64(ci*100+ii*10+1)) / 2
			if got := matrix.Data[i][j]; got != want {
				t.Errorf("%s/%s: expected %v, got %v", country, ind, want, got)
			}
		}
	}
}

func TestAggregator_YearWindowFilters(t *testing.T) {
	agg := NewAggregator(2013, 2017)

	obs := []dataset.Observation{
		obsValue("Chile", "IND.A", 2012, 999), // outside window
		obsValue("Chile", "IND.A", 2013, 10),
		obsValue("Chile", "IND.A", 2017, 20),
		obsValue("Chile", "IND.A", 2018, 999), // outside window
	}

	matrix, err := agg.Aggregate(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := matrix.Data[0][0]; got != 15 {
		t.Errorf("expected window mean 15, got %v", got)
	}
}

func TestAggregator_AllMissingGroupYieldsMissing(t *testing.T) {
	agg := NewAggregator(2013, 2017)

	obs := []dataset.Observation{
		obsMissing("Chile", "IND.A", 2013),
		obsMissing("Chile", "IND.A", 2014),
		obsValue("Chile", "IND.B", 2013, 5),
	}

	matrix, err := agg.Aggregate(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aIdx := matrix.IndicatorIndex("IND.A")
	if !math.IsNaN(matrix.Data[0][aIdx]) {
		t.Errorf("all-missing group should aggregate to missing, got %v", matrix.Data[0][aIdx])
	}
	bIdx := matrix.IndicatorIndex("IND.B")
	if matrix.Data[0][bIdx] != 5 {
		t.Errorf("expected 5, got %v", matrix.Data[0][bIdx])
	}
}

func TestAggregator_CountryWithoutAnyValueIsAbsent(t *testing.T) {
	agg := NewAggregator(2013, 2017)

	obs := []dataset.Observation{
		obsValue("Chile", "IND.A", 2013, 1),
		obsMissing("Atlantis", "IND.A", 2013),
		obsValue("Narnia", "IND.A", 2010, 3), // only outside the window
	}

	matrix, err := agg.Aggregate(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matrix.Countries) != 1 || matrix.Countries[0] != "Chile" {
		t.Errorf("expected only Chile, got %v", matrix.Countries)
	}
}

func TestAggregator_DuplicateCellsAreAveraged(t *testing.T) {
	agg := NewAggregator(2013, 2017)

	// Same (country, indicator, year) appearing twice: both values
	// enter the mean.
	obs := []dataset.Observation{
		obsValue("Chile", "IND.A", 2013, 10),
		obsValue("Chile", "IND.A", 2013, 30),
	}

	matrix, err := agg.Aggregate(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := matrix.Data[0][0]; got != 20 {
		t.Errorf("expected duplicates averaged to 20, got %v", got)
	}
}

func indexOf(list []string, item string) int {
	for i, v := range list {
		if v == item {
			return i
		}
	}
	return -1
}
