// Package report writes the analysis outputs as CSV files for the
// study notebooks.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"audival/domain/dam"
	"audival/domain/rem"
	"audival/domain/sin"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteTrials writes the cleaned trial table with its derived columns.
func WriteTrials(path string, rows []dam.Derived) error {
	headers := []string{
		"subject", "condition", "comparison", "snr", "track", "type",
		"audio_file", "outcome",
	}
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{
			row.Subject, row.Condition, row.Comparison, row.SNR, row.Track,
			string(row.Type), row.AudioFile, row.Outcome,
		}
	}
	return writeCSV(path, headers, records)
}

// WriteDeviations writes one CSV per deviation group into dir, named
// "<prefix>_<condition>_<form_factor>.csv". Group order is sorted so
// reruns produce the same files.
func WriteDeviations(dir, prefix string, groups rem.DeviationGroups) error {
	keys := make([]rem.GroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Condition != keys[j].Condition {
			return keys[i].Condition < keys[j].Condition
		}
		return keys[i].FormFactor < keys[j].FormFactor
	})

	headers := []string{
		"subject", "condition", "form_factor", "freq",
		"left65", "right65", "left_diff", "right_diff",
	}
	for _, key := range keys {
		rows := groups[key]
		records := make([][]string, len(rows))
		for i, row := range rows {
			records[i] = []string{
				row.Subject, row.Condition, row.FormFactor, formatFloat(row.Freq),
				formatFloat(row.Left65), formatFloat(row.Right65),
				formatFloat(row.LeftDiff), formatFloat(row.RightDiff),
			}
		}
		name := fmt.Sprintf("%s_%s_%s.csv", prefix, key.Condition, key.FormFactor)
		if err := writeCSV(filepath.Join(dir, name), headers, records); err != nil {
			return err
		}
	}
	return nil
}

// WriteCriteria writes the criteria report with one row per group and band.
func WriteCriteria(path string, report *rem.Report) error {
	headers := []string{
		"condition", "form_factor", "freq", "band", "ceiling",
		"ears_within", "ears_total", "percent_within",
		"t_statistic", "p_value",
	}
	records := make([][]string, len(report.Results))
	for i, r := range report.Results {
		tStat, pValue := "", ""
		if r.TTest != nil {
			tStat = formatFloat(r.TTest.Statistic)
			pValue = formatFloat(r.TTest.PValue)
		}
		records[i] = []string{
			r.Condition, r.FormFactor, formatFloat(r.Freq), r.Band,
			formatFloat(r.Ceiling), strconv.Itoa(r.EarsWithin),
			strconv.Itoa(r.EarsTotal), formatFloat(r.PercentWithin),
			tStat, pValue,
		}
	}
	return writeCSV(path, headers, records)
}

// WriteScoreSummary writes the omnibus and pairwise test results for
// one score table.
func WriteScoreSummary(path string, summary *sin.Summary) error {
	headers := []string{"test", "condition_a", "condition_b", "statistic", "p_value", "n"}

	var records [][]string
	if summary.Friedman != nil {
		records = append(records, []string{
			"friedman", "", "",
			formatFloat(summary.Friedman.Statistic),
			formatFloat(summary.Friedman.PValue),
			strconv.Itoa(summary.Subjects),
		})
	}
	for _, pair := range summary.Pairwise {
		records = append(records, []string{
			"wilcoxon", pair.ConditionA, pair.ConditionB,
			formatFloat(pair.Wilcoxon.Statistic),
			formatFloat(pair.Wilcoxon.PValue),
			strconv.Itoa(pair.Wilcoxon.N),
		})
	}
	return writeCSV(path, headers, records)
}
