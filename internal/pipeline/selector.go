package pipeline

import (
	"math"

	"lifereg/domain/core"
	"lifereg/domain/dataset"
	"lifereg/internal/errors"
)

// Selector projects the fixed indicator whitelist out of the
// country-indicator matrix and drops incomplete rows.
type Selector struct {
	Required []core.IndicatorKey
}

// NewSelector creates a selector over the given indicator whitelist.
func NewSelector(required []core.IndicatorKey) *Selector {
	return &Selector{Required: required}
}

// SelectClean projects the required columns plus country identity and
// excludes every row with a missing value in any required column. A
// required column absent from the matrix is a schema mismatch naming
// the offending indicator; it signals an upstream problem, not a skip.
func (s *Selector) SelectClean(m *dataset.CountryMatrix) (*dataset.FeatureTable, error) {
	indexes := make([]int, len(s.Required))
	for i, key := range s.Required {
		idx := m.IndicatorIndex(key)
		if idx < 0 {
			return nil, errors.SchemaMismatch(key.String())
		}
		indexes[i] = idx
	}

	table := &dataset.FeatureTable{
		Columns: append([]core.IndicatorKey(nil), s.Required...),
	}
	for i, country := range m.Countries {
		row := make([]float64, len(indexes))
		complete := true
		for j, idx := range indexes {
			v := m.Data[i][idx]
			if math.IsNaN(v) {
				complete = false
				break
			}
			row[j] = v
		}
		if !complete {
			continue
		}
		table.Countries = append(table.Countries, country)
		table.Data = append(table.Data, row)
	}

	return table, nil
}
