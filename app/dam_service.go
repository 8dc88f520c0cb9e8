// Package app orchestrates the analysis pipelines: ingest, organize,
// filter, analyze, write reports, archive the run.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"audival/adapters/ingest"
	"audival/adapters/report"
	"audival/domain/core"
	"audival/domain/dam"
	"audival/internal/logging"
	"audival/ports"
)

// DAMService runs the paired-comparison trial pipeline.
type DAMService struct {
	importer *ingest.DAMImporter
	archive  ports.RunArchive
	logger   *logging.Logger
}

// NewDAMService creates the service. A nil archive disables run recording.
func NewDAMService(archive ports.RunArchive, logger *logging.Logger) *DAMService {
	return &DAMService{
		importer: ingest.NewDAMImporter(logger),
		archive:  archive,
		logger:   logger,
	}
}

// DAMResult summarizes one completed pipeline run.
type DAMResult struct {
	Run      *core.Run     `json:"run"`
	RowsIn   int           `json:"rows_in"`
	RowsKept int           `json:"rows_kept"`
	Clean    []dam.Derived `json:"-"`
}

// Run imports every export under dataDir, derives the classification
// columns, drops incomplete datasets and writes the clean table to outDir.
func (s *DAMService) Run(ctx context.Context, dataDir, outDir string) (*DAMResult, error) {
	raw, err := s.importer.ImportDir(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("importing trials: %w", err)
	}

	derived, err := dam.Organize(raw)
	if err != nil {
		return nil, fmt.Errorf("organizing trials: %w", err)
	}

	clean := dam.RemoveIncomplete(derived)
	s.logger.Info("Kept %d of %d trials after completeness filtering", len(clean), len(derived))

	outPath := filepath.Join(outDir, "dam_clean.csv")
	if err := report.WriteTrials(outPath, clean); err != nil {
		return nil, fmt.Errorf("writing clean table: %w", err)
	}
	s.logger.Info("Wrote clean trial table to %s", outPath)

	run := core.NewRun(core.RunKindDAM, dataDir)
	run.RowsIn = len(raw)
	run.RowsKept = len(clean)
	if err := s.recordRun(ctx, run); err != nil {
		return nil, err
	}

	return &DAMResult{
		Run:      run,
		RowsIn:   len(raw),
		RowsKept: len(clean),
		Clean:    clean,
	}, nil
}

func (s *DAMService) recordRun(ctx context.Context, run *core.Run) error {
	if s.archive == nil {
		return nil
	}
	if err := s.archive.Create(ctx, run); err != nil {
		return fmt.Errorf("archiving run: %w", err)
	}
	return nil
}

// encodeParams serializes pipeline parameters for the run record.
func encodeParams(params interface{}) string {
	raw, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(raw)
}
