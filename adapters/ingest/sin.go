package ingest

import (
	"math"
	"strconv"

	"audival/domain/core"
	"audival/domain/sin"
)

// ReadScores reads a speech-in-noise score export into a wide table.
// Non-numeric cells (subject identifiers and the like) become NaN; the
// organize step keeps only the marked score columns, so identifier
// columns never reach the statistics.
func ReadScores(path string) (sin.Table, error) {
	raw, err := NewDataReader(path).ReadData()
	if err != nil {
		return sin.Table{}, err
	}
	if len(raw.Rows) == 0 {
		return sin.Table{}, core.ErrEmptyDataset
	}

	table := sin.Table{
		Columns: raw.Headers,
		Rows:    make([][]float64, len(raw.Rows)),
	}
	for r, row := range raw.Rows {
		table.Rows[r] = make([]float64, len(raw.Headers))
		for c, header := range raw.Headers {
			value, err := strconv.ParseFloat(row[header], 64)
			if err != nil {
				value = math.NaN()
			}
			table.Rows[r][c] = value
		}
	}
	return table, nil
}
