package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"audival/internal/logging"
)

func TestSINService_Run(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	scoreFile := filepath.Join(dir, "sin.csv")
	scoreCSV := `Subject,Omni_On_Words,Omni_Off_Words,Dir_On_Words,Omni_On_Sentences,Omni_Off_Sentences,Dir_On_Sentences
P01,80,72,88,90,85,95
P02,76,70,84,88,82,93
P03,82,75,90,92,86,96
P04,78,71,86,89,84,94
P05,81,74,89,91,83,95
P06,79,73,85,90,85,92
`
	if err := os.WriteFile(scoreFile, []byte(scoreCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	archive := &memoryArchive{}
	service := NewSINService(archive, logging.Nop())

	result, err := service.Run(context.Background(), scoreFile, outDir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Words == nil || result.Sentences == nil {
		t.Fatal("Expected both word and sentence summaries")
	}
	if result.Words.Friedman == nil {
		t.Error("Expected an omnibus result for three word conditions")
	}
	if len(result.Words.Pairwise) != 3 {
		t.Errorf("Expected 3 pairwise comparisons, got %d", len(result.Words.Pairwise))
	}

	for _, name := range []string{"sin_words.csv", "sin_sentences.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Expected output %s: %v", name, err)
		}
	}
	if len(archive.created) != 1 {
		t.Fatalf("Expected 1 archived run, got %d", len(archive.created))
	}
	if archive.created[0].RowsIn != 6 {
		t.Errorf("Expected 6 subjects recorded, got %d", archive.created[0].RowsIn)
	}
}
