// Package sin organizes speech-in-noise score tables and runs the
// repeated-measures comparisons across test conditions.
package sin

import (
	"errors"
	"strings"

	"audival/domain/core"
	"audival/internal/stattest"
)

// Table is a wide score table: one row per subject, one column per
// test condition, values in percent correct.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// Column returns the values of one column across all rows.
func (t Table) Column(i int) []float64 {
	values := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values
}

// select keeps the columns whose name contains the marker, in original order
func (t Table) selectColumns(marker string) Table {
	var keep []int
	var names []string
	for i, col := range t.Columns {
		if strings.Contains(col, marker) {
			keep = append(keep, i)
			names = append(names, conditionName(col))
		}
	}

	out := Table{Columns: names, Rows: make([][]float64, len(t.Rows))}
	for r, row := range t.Rows {
		out.Rows[r] = make([]float64, len(keep))
		for j, i := range keep {
			out.Rows[r][j] = row[i]
		}
	}
	return out
}

// conditionName strips the trailing score-type token from a raw column
// name and joins the rest with spaces, so "Omni_On_Words" reads "Omni On".
func conditionName(col string) string {
	tokens := strings.Split(col, "_")
	if len(tokens) > 1 {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Organize splits a raw export into separate word and sentence score
// tables, keyed off the "Words" and "Sentences" markers in the column
// names. An export with neither marker carries no scorable data.
func Organize(raw Table) (words, sentences Table, err error) {
	if len(raw.Rows) == 0 {
		return Table{}, Table{}, core.ErrEmptyDataset
	}

	words = raw.selectColumns("Words")
	sentences = raw.selectColumns("Sentences")
	if len(words.Columns) == 0 && len(sentences.Columns) == 0 {
		return Table{}, Table{}, core.ErrEmptyDataset
	}
	return words, sentences, nil
}

// PairwiseResult is one Wilcoxon comparison between two conditions.
type PairwiseResult struct {
	ConditionA string                  `json:"condition_a"`
	ConditionB string                  `json:"condition_b"`
	Wilcoxon   stattest.WilcoxonResult `json:"wilcoxon"`
}

// Summary is the omnibus and pairwise outcome for one score table.
type Summary struct {
	Label    string                   `json:"label"`
	Subjects int                      `json:"subjects"`
	Friedman *stattest.FriedmanResult `json:"friedman,omitempty"`
	Pairwise []PairwiseResult         `json:"pairwise"`
}

// Analyze runs the Friedman omnibus test across the table's conditions
// followed by Wilcoxon signed-rank tests on every condition pair. Tables
// with fewer than three conditions skip the omnibus test but still report
// the available pairwise comparisons.
func Analyze(label string, table Table) (*Summary, error) {
	if len(table.Rows) == 0 || len(table.Columns) < 2 {
		return nil, core.ErrEmptyDataset
	}

	summary := &Summary{Label: label, Subjects: len(table.Rows)}

	friedman, err := stattest.Friedman(table.Rows)
	switch {
	case err == nil:
		summary.Friedman = &friedman
	case errors.Is(err, core.ErrInsufficientData):
		// Two-condition tables have no omnibus test
	default:
		return nil, err
	}

	for i := 0; i < len(table.Columns); i++ {
		for j := i + 1; j < len(table.Columns); j++ {
			w, err := stattest.Wilcoxon(table.Column(i), table.Column(j))
			if err != nil {
				if errors.Is(err, core.ErrInsufficientData) {
					continue
				}
				return nil, err
			}
			summary.Pairwise = append(summary.Pairwise, PairwiseResult{
				ConditionA: table.Columns[i],
				ConditionB: table.Columns[j],
				Wilcoxon:   w,
			})
		}
	}
	return summary, nil
}
