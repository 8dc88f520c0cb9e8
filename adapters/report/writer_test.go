package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"audival/domain/dam"
	"audival/domain/rem"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestWriteTrials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	rows := []dam.Derived{
		{
			Observation: dam.Observation{
				Subject: "P01", Condition: "aided",
				ButtonA: "DAM_OFF", ButtonB: "DAM_3",
				AudioFile: "88_a_b_c_5_d.csv", Outcome: "1",
			},
			Comparison: "DAM_OFF-DAM_3", SNR: "5", Track: "88", Type: dam.TrialPref,
		},
	}

	if err := WriteTrials(path, rows); err != nil {
		t.Fatalf("WriteTrials failed: %v", err)
	}

	got := readBack(t, path)
	if len(got) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d rows", len(got))
	}
	if got[0][0] != "subject" || got[0][2] != "comparison" {
		t.Errorf("Unexpected header: %v", got[0])
	}
	if got[1][2] != "DAM_OFF-DAM_3" || got[1][5] != "pref" {
		t.Errorf("Unexpected row: %v", got[1])
	}
}

func TestWriteDeviations_OneFilePerGroup(t *testing.T) {
	dir := t.TempDir()
	groups := rem.DeviationGroups{
		{Condition: "TargetMatch", FormFactor: "RIC"}: {
			{
				Measurement: rem.Measurement{
					Subject: "S1", Condition: "TargetMatch", FormFactor: "RIC",
					Freq: 1000, Left65: 50, Right65: 52,
				},
				LeftDiff: 5, RightDiff: 2,
			},
		},
		{Condition: "TargetMatch", FormFactor: "CIC"}: {
			{
				Measurement: rem.Measurement{
					Subject: "S2", Condition: "TargetMatch", FormFactor: "CIC",
					Freq: 2000, Left65: 48, Right65: 49,
				},
				LeftDiff: -1, RightDiff: 0,
			},
		},
	}

	if err := WriteDeviations(dir, "estat", groups); err != nil {
		t.Fatalf("WriteDeviations failed: %v", err)
	}

	ric := readBack(t, filepath.Join(dir, "estat_TargetMatch_RIC.csv"))
	if len(ric) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d", len(ric))
	}
	if ric[1][6] != "5" || ric[1][7] != "2" {
		t.Errorf("Unexpected diffs in row: %v", ric[1])
	}

	cic := readBack(t, filepath.Join(dir, "estat_TargetMatch_CIC.csv"))
	if cic[1][0] != "S2" {
		t.Errorf("Unexpected subject in CIC file: %v", cic[1])
	}
}

func TestWriteCriteria_NilTTestLeavesBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.csv")
	report := &rem.Report{
		Results: []rem.BandResult{
			{
				Condition: "TargetMatch", FormFactor: "RIC", Freq: 1000,
				Band: "low", Ceiling: 5, EarsWithin: 5, EarsTotal: 8,
				PercentWithin: 62.5,
			},
		},
	}

	if err := WriteCriteria(path, report); err != nil {
		t.Fatalf("WriteCriteria failed: %v", err)
	}

	got := readBack(t, path)
	if got[1][7] != "62.5" {
		t.Errorf("Expected percent 62.5, got %q", got[1][7])
	}
	if got[1][8] != "" || got[1][9] != "" {
		t.Errorf("Expected blank test columns, got %v", got[1])
	}
}
