// Package ingest reads the raw study exports (Vesta DAM trials, Verifit
// REM sessions, e-STAT targets, SIN score sheets) into domain rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one record keyed by trimmed header name
type Row map[string]string

// Float parses a numeric cell, returning an error naming the column.
func (r Row) Float(key string) (float64, error) {
	raw, ok := r[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("missing value for column %q", key)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return value, nil
}

// TableData is a raw export: header names plus string-valued rows.
type TableData struct {
	Headers []string
	Rows    []Row
}

// DataReader handles reading Excel and CSV exports
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads the export into structured form.
func (r *DataReader) ReadData() (*TableData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads Sheet1 into structured form
func (r *DataReader) readExcelData() (*TableData, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return processRows(rows), nil
}

// readCSVData reads CSV data into structured form
func (r *DataReader) readCSVData() (*TableData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return processRows(rows), nil
}

// processRows converts raw string rows into header-keyed records
func processRows(rows [][]string) *TableData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []Row
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(Row)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &TableData{Headers: headers, Rows: dataRows}
}
