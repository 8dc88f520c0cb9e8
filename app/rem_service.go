package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"audival/adapters/ingest"
	"audival/adapters/report"
	"audival/domain/core"
	"audival/domain/rem"
	"audival/internal/logging"
	"audival/ports"
)

// REMService runs the real-ear deviation pipeline.
type REMService struct {
	archive ports.RunArchive
	logger  *logging.Logger
}

// NewREMService creates the service. A nil archive disables run recording.
func NewREMService(archive ports.RunArchive, logger *logging.Logger) *REMService {
	return &REMService{archive: archive, logger: logger}
}

// REMResult summarizes one completed pipeline run.
type REMResult struct {
	Run             *core.Run   `json:"run"`
	Report          *rem.Report `json:"report"`
	CollapsedReport *rem.Report `json:"collapsed_report"`
}

// Run pairs a Verifit session export against its e-STAT targets, scores
// the deviation criteria per form factor and again with the receiver
// variants collapsed, and writes the per-group deviation tables.
func (s *REMService) Run(ctx context.Context, verifitFile, targetsFile, outDir string, params rem.AnalysisParams) (*REMResult, error) {
	measured, err := ingest.ReadMeasurements(verifitFile)
	if err != nil {
		return nil, fmt.Errorf("reading measurements: %w", err)
	}
	targets, err := ingest.ReadTargets(targetsFile)
	if err != nil {
		return nil, fmt.Errorf("reading targets: %w", err)
	}
	s.logger.Info("Paired %d measurements against %d target rows", len(measured), len(targets))

	model, err := rem.NewDataModel(measured, targets)
	if err != nil {
		return nil, fmt.Errorf("building data model: %w", err)
	}

	result, err := s.analyze(model, outDir, "estat", params)
	if err != nil {
		return nil, err
	}

	collapsed := model.CollapseFormFactors(rem.CollapseRIC)
	collapsedReport, err := s.analyze(collapsed, outDir, "estat_collapsed", params)
	if err != nil {
		return nil, err
	}

	run := core.NewRun(core.RunKindREM, verifitFile)
	run.RowsIn = len(measured)
	run.RowsKept = len(measured)
	run.Parameters = encodeParams(params)
	if s.archive != nil {
		if err := s.archive.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("archiving run: %w", err)
		}
	}

	return &REMResult{Run: run, Report: result, CollapsedReport: collapsedReport}, nil
}

// analyze scores one model and writes its criteria and deviation files.
func (s *REMService) analyze(model *rem.DataModel, outDir, prefix string, params rem.AnalysisParams) (*rem.Report, error) {
	rpt, err := model.Analyze(params)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", prefix, err)
	}

	criteriaPath := filepath.Join(outDir, prefix+"_criteria.csv")
	if err := report.WriteCriteria(criteriaPath, rpt); err != nil {
		return nil, fmt.Errorf("writing criteria: %w", err)
	}
	if err := report.WriteDeviations(outDir, prefix, model.TargetDiffs()); err != nil {
		return nil, fmt.Errorf("writing deviations: %w", err)
	}
	s.logger.Info("Wrote %s criteria and %d deviation groups", prefix, len(model.TargetDiffs()))

	// Fine-tuning comparisons are optional: a session missing one of the
	// conditions has none to report. An unpaired row still fails the run.
	if diffs, err := model.EndStudyDiffs(); err == nil {
		if err := report.WriteDeviations(outDir, prefix+"_endstudy", diffs); err != nil {
			return nil, fmt.Errorf("writing end-study deviations: %w", err)
		}
	} else if !errors.Is(err, core.ErrUnknownCondition) {
		return nil, err
	}
	if diffs, err := model.BestFitDiffs(); err == nil {
		if err := report.WriteDeviations(outDir, prefix+"_bestfit", diffs); err != nil {
			return nil, fmt.Errorf("writing best-fit deviations: %w", err)
		}
	} else if !errors.Is(err, core.ErrUnknownCondition) {
		return nil, err
	}

	return rpt, nil
}
