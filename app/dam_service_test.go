package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"audival/domain/core"
	"audival/internal/logging"
)

// memoryArchive is an in-memory RunArchive for service tests
type memoryArchive struct {
	created []*core.Run
}

func (m *memoryArchive) Create(ctx context.Context, run *core.Run) error {
	m.created = append(m.created, run)
	return nil
}

func (m *memoryArchive) GetByID(ctx context.Context, id core.RunID) (*core.Run, error) {
	for _, run := range m.created {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, fmt.Errorf("run %s not found", id)
}

func (m *memoryArchive) List(ctx context.Context, kind core.RunKind, limit int) ([]*core.Run, error) {
	return m.created, nil
}

func writeDAMFixture(t *testing.T, dir, name string) {
	t.Helper()
	content := "subject,condition,button_A,button_B,audio_file,outcome\n"
	// Four repeats of one cell make it complete; a single extra row in a
	// second cell gets dropped.
	for i := 0; i < 4; i++ {
		content += "P01,aided,DAM_OFF,DAM_3,88_speech_x_y_5_z.csv,1\n"
	}
	content += "P01,aided,DAM_3,DAM_4,88_speech_x_y_5_z.csv,0\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func TestDAMService_Run(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	writeDAMFixture(t, dataDir, "0123_smith_2024_Jan_05_1342.csv")

	archive := &memoryArchive{}
	service := NewDAMService(archive, logging.Nop())

	result, err := service.Run(context.Background(), dataDir, outDir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.RowsIn != 5 {
		t.Errorf("Expected 5 rows in, got %d", result.RowsIn)
	}
	if result.RowsKept != 4 {
		t.Errorf("Expected 4 rows kept, got %d", result.RowsKept)
	}

	if _, err := os.Stat(filepath.Join(outDir, "dam_clean.csv")); err != nil {
		t.Errorf("Expected clean table file: %v", err)
	}

	if len(archive.created) != 1 {
		t.Fatalf("Expected 1 archived run, got %d", len(archive.created))
	}
	run := archive.created[0]
	if run.Kind != core.RunKindDAM || run.RowsKept != 4 {
		t.Errorf("Unexpected run record: %+v", run)
	}
}

func TestDAMService_NilArchiveSkipsRecording(t *testing.T) {
	dataDir := t.TempDir()
	writeDAMFixture(t, dataDir, "0123_smith_2024_Jan_05_1342.csv")

	service := NewDAMService(nil, logging.Nop())
	if _, err := service.Run(context.Background(), dataDir, t.TempDir()); err != nil {
		t.Fatalf("Run without archive failed: %v", err)
	}
}

func TestDAMService_InvalidFileNameStopsRun(t *testing.T) {
	dataDir := t.TempDir()
	writeDAMFixture(t, dataDir, "notes.csv")

	archive := &memoryArchive{}
	service := NewDAMService(archive, logging.Nop())

	_, err := service.Run(context.Background(), dataDir, t.TempDir())
	if !errors.Is(err, core.ErrInvalidFileName) {
		t.Fatalf("Expected ErrInvalidFileName, got %v", err)
	}
	if len(archive.created) != 0 {
		t.Error("Failed runs must not be archived")
	}
}
