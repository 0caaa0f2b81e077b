package dataset

import (
	"math"

	"lifereg/domain/core"
)

// RawTable is the labeled wide table produced by the loader: one header
// row plus string cells, before any numeric interpretation.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (t *RawTable) ColumnIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Observation is one (country, indicator, year) cell in long form.
// Missing source cells carry NaN.
type Observation struct {
	Country   string
	Indicator core.IndicatorKey
	Year      int
	Value     float64
}

// Missing reports whether the observation carries no value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// CountryMatrix holds one row per country and one column per indicator,
// cells are year-averaged values. NaN marks a missing aggregate.
type CountryMatrix struct {
	Countries  []string
	Indicators []core.IndicatorKey
	Data       [][]float64
}

// IndicatorIndex returns the column position of an indicator, or -1 when absent.
func (m *CountryMatrix) IndicatorIndex(key core.IndicatorKey) int {
	for i, ind := range m.Indicators {
		if ind == key {
			return i
		}
	}
	return -1
}

// Column returns a copy of one indicator column.
func (m *CountryMatrix) Column(key core.IndicatorKey) ([]float64, bool) {
	idx := m.IndicatorIndex(key)
	if idx < 0 {
		return nil, false
	}
	col := make([]float64, len(m.Data))
	for i, row := range m.Data {
		col[i] = row[idx]
	}
	return col, true
}

// FeatureTable is the cleaned per-country feature set restricted to the
// indicator whitelist. Invariant: no cell is NaN.
type FeatureTable struct {
	Countries []string
	Columns   []core.IndicatorKey
	Data      [][]float64
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (t *FeatureTable) ColumnIndex(key core.IndicatorKey) int {
	for i, c := range t.Columns {
		if c == key {
			return i
		}
	}
	return -1
}

// Column returns a copy of one feature column.
func (t *FeatureTable) Column(key core.IndicatorKey) []float64 {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		return nil
	}
	col := make([]float64, len(t.Data))
	for i, row := range t.Data {
		col[i] = row[idx]
	}
	return col
}

// Rows returns the number of countries in the table.
func (t *FeatureTable) Rows() int {
	return len(t.Data)
}

// Clone deep-copies the table so transforms never mutate their input.
func (t *FeatureTable) Clone() *FeatureTable {
	out := &FeatureTable{
		Countries: append([]string(nil), t.Countries...),
		Columns:   append([]core.IndicatorKey(nil), t.Columns...),
		Data:      make([][]float64, len(t.Data)),
	}
	for i, row := range t.Data {
		out.Data[i] = append([]float64(nil), row...)
	}
	return out
}
