package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"lifereg/domain/dataset"
)

// WriteMatrixCSV persists a country-indicator matrix as a checkpoint
// file, row key = country, empty cell = missing aggregate.
func WriteMatrixCSV(path string, m *dataset.CountryMatrix) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := make([]string, 0, len(m.Indicators)+1)
	header = append(header, "Country Name")
	for _, ind := range m.Indicators {
		header = append(header, ind.String())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, country := range m.Countries {
		record := make([]string, 0, len(m.Indicators)+1)
		record = append(record, country)
		for _, v := range m.Data[i] {
			record = append(record, formatCell(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteFeatureCSV persists a feature table as a checkpoint file.
func WriteFeatureCSV(path string, t *dataset.FeatureTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "Country Name")
	for _, c := range t.Columns {
		header = append(header, c.String())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, country := range t.Countries {
		record := make([]string, 0, len(t.Columns)+1)
		record = append(record, country)
		for _, v := range t.Data[i] {
			record = append(record, formatCell(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
