package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audival/domain/core"
	"audival/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

const damCSV = `subject,condition,button_A,button_B,audio_file,outcome
P01,aided,DAM_OFF,DAM_3,88_speech_x_y_5_z.csv,1
P01,aided,DAM_3,DAM_OFF,119_babble_x_y_0_z.csv,0
`

func TestDAMImporter_ImportDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0123_smith_2024_Jan_05_1342.csv", damCSV)
	writeFile(t, dir, "0124_jones_2024_Feb_11_0915.csv", damCSV)

	importer := NewDAMImporter(logging.Nop())
	rows, err := importer.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 concatenated trials, got %d", len(rows))
	}
	if rows[0].Subject != "P01" || rows[0].ButtonA != "DAM_OFF" {
		t.Errorf("Unexpected first trial: %+v", rows[0])
	}
	if rows[0].Outcome != "1" {
		t.Errorf("Expected outcome 1, got %q", rows[0].Outcome)
	}
}

func TestDAMImporter_ReportsAllInvalidNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0123_smith_2024_Jan_05_1342.csv", damCSV)
	writeFile(t, dir, "notes.csv", damCSV)
	writeFile(t, dir, "0123_smith_2024_January_05_1342.csv", damCSV)

	importer := NewDAMImporter(logging.Nop())
	_, err := importer.ImportDir(context.Background(), dir)
	if !errors.Is(err, core.ErrInvalidFileName) {
		t.Fatalf("Expected ErrInvalidFileName, got %v", err)
	}
	// Both offenders named in one pass
	msg := err.Error()
	if !strings.Contains(msg, "notes.csv") {
		t.Errorf("Error should name notes.csv: %s", msg)
	}
	if !strings.Contains(msg, "0123_smith_2024_January_05_1342.csv") {
		t.Errorf("Error should name the misspelled month file: %s", msg)
	}
}

func TestDAMImporter_EmptyDir(t *testing.T) {
	importer := NewDAMImporter(logging.Nop())
	_, err := importer.ImportDir(context.Background(), t.TempDir())
	if !errors.Is(err, core.ErrEmptyDataset) {
		t.Fatalf("Expected ErrEmptyDataset, got %v", err)
	}
}

func TestReadMeasurements_SplitsSessionName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "verifit.csv", `filename,freq,left65,right65
S1_TargetMatch,1000,50,52
S1_TargetMatch,2000,55,56
`)

	rows, err := ReadMeasurements(path)
	if err != nil {
		t.Fatalf("ReadMeasurements failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 measurements, got %d", len(rows))
	}
	if rows[0].Subject != "S1" || rows[0].Condition != "TargetMatch" {
		t.Errorf("Unexpected session split: %+v", rows[0])
	}
	if rows[0].FormFactor != "" {
		t.Errorf("Form factor should start empty, got %q", rows[0].FormFactor)
	}
	if rows[1].Freq != 2000 || rows[1].Left65 != 55 {
		t.Errorf("Unexpected second row: %+v", rows[1])
	}
}

func TestReadMeasurements_BadSessionName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "verifit.csv", `filename,freq,left65,right65
S1TargetMatch,1000,50,52
`)

	_, err := ReadMeasurements(path)
	if err == nil {
		t.Fatal("Expected an error for a session name without an underscore")
	}
}

func TestReadTargets_KeepsFormFactor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "estat.csv", `filename,form_factor,freq,left,right
S1_estat,RIC_RT,1000,45,50
`)

	rows, err := ReadTargets(path)
	if err != nil {
		t.Fatalf("ReadTargets failed: %v", err)
	}
	if rows[0].Subject != "S1" {
		t.Errorf("Expected subject S1, got %q", rows[0].Subject)
	}
	if rows[0].FormFactor != "RIC_RT" {
		t.Errorf("Expected form factor RIC_RT, got %q", rows[0].FormFactor)
	}
	if rows[0].Left != 45 || rows[0].Right != 50 {
		t.Errorf("Unexpected targets: %+v", rows[0])
	}
}

func TestReadScores_NonNumericBecomesNaN(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sin.csv", `Subject,Omni_On_Words,Omni_On_Sentences
P01,80,90
P02,76,88
`)

	table, err := ReadScores(path)
	if err != nil {
		t.Fatalf("ReadScores failed: %v", err)
	}
	if len(table.Columns) != 3 || len(table.Rows) != 2 {
		t.Fatalf("Unexpected shape: %d cols, %d rows", len(table.Columns), len(table.Rows))
	}
	if !math.IsNaN(table.Rows[0][0]) {
		t.Errorf("Subject cell should be NaN, got %f", table.Rows[0][0])
	}
	if table.Rows[1][1] != 76 {
		t.Errorf("Expected 76 at [1][1], got %f", table.Rows[1][1])
	}
}

func TestRowFloat_MissingColumn(t *testing.T) {
	row := Row{"freq": "1000"}
	if _, err := row.Float("left65"); err == nil {
		t.Fatal("Expected an error for a missing column")
	}
	if v, err := row.Float("freq"); err != nil || v != 1000 {
		t.Fatalf("Expected 1000, got %f (%v)", v, err)
	}
}
