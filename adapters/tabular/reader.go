package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lifereg/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// ReaderOptions controls how the wide indicator file is interpreted.
// SkipRows is dataset-specific (3084 in the reference layout) and must
// stay configurable.
type ReaderOptions struct {
	SkipRows  int    // data rows discarded after the header row
	SheetName string // xlsx only, defaults to Sheet1
}

// DataReader reads a wide-format indicator file (CSV or XLSX) into a
// labeled raw table.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	opts     ReaderOptions
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ReaderOptions) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if opts.SheetName == "" {
		opts.SheetName = "Sheet1"
	}
	return &DataReader{filePath: filePath, fileType: fileType, opts: opts}
}

// ReadTable reads the file into a RawTable: the first row is the header,
// then SkipRows data rows are discarded, the rest become data rows.
func (r *DataReader) ReadTable() (*dataset.RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcel() (*dataset.RawTable, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.opts.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.opts.SheetName, err)
	}

	return r.assemble(rows)
}

func (r *DataReader) readCSV() (*dataset.RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // the reference layout has ragged metadata rows
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	return r.assemble(rows)
}

// assemble splits raw rows into header and data region, applying SkipRows.
func (r *DataReader) assemble(rows [][]string) (*dataset.RawTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataStart := 1 + r.opts.SkipRows
	if dataStart >= len(rows) {
		return nil, fmt.Errorf("skip offset %d leaves no data rows (%d total rows)", r.opts.SkipRows, len(rows))
	}

	var dataRows [][]string
	for _, row := range rows[dataStart:] {
		cells := make([]string, len(headers))
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		dataRows = append(dataRows, cells)
	}

	return &dataset.RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
