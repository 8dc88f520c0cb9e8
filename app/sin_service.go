package app

import (
	"context"
	"fmt"
	"path/filepath"

	"audival/adapters/ingest"
	"audival/adapters/report"
	"audival/domain/core"
	"audival/domain/sin"
	"audival/internal/logging"
	"audival/ports"
)

// SINService runs the speech-in-noise scoring pipeline.
type SINService struct {
	archive ports.RunArchive
	logger  *logging.Logger
}

// NewSINService creates the service. A nil archive disables run recording.
func NewSINService(archive ports.RunArchive, logger *logging.Logger) *SINService {
	return &SINService{archive: archive, logger: logger}
}

// SINResult summarizes one completed pipeline run.
type SINResult struct {
	Run       *core.Run    `json:"run"`
	Words     *sin.Summary `json:"words,omitempty"`
	Sentences *sin.Summary `json:"sentences,omitempty"`
}

// Run splits a score export into word and sentence tables, runs the
// omnibus and pairwise comparisons on each and writes both summaries.
func (s *SINService) Run(ctx context.Context, scoreFile, outDir string) (*SINResult, error) {
	raw, err := ingest.ReadScores(scoreFile)
	if err != nil {
		return nil, fmt.Errorf("reading scores: %w", err)
	}

	words, sentences, err := sin.Organize(raw)
	if err != nil {
		return nil, fmt.Errorf("organizing scores: %w", err)
	}
	s.logger.Info("Split %d word and %d sentence conditions across %d subjects",
		len(words.Columns), len(sentences.Columns), len(raw.Rows))

	result := &SINResult{}
	if len(words.Columns) >= 2 {
		summary, err := sin.Analyze("words", words)
		if err != nil {
			return nil, fmt.Errorf("analyzing word scores: %w", err)
		}
		path := filepath.Join(outDir, "sin_words.csv")
		if err := report.WriteScoreSummary(path, summary); err != nil {
			return nil, fmt.Errorf("writing word summary: %w", err)
		}
		result.Words = summary
	}
	if len(sentences.Columns) >= 2 {
		summary, err := sin.Analyze("sentences", sentences)
		if err != nil {
			return nil, fmt.Errorf("analyzing sentence scores: %w", err)
		}
		path := filepath.Join(outDir, "sin_sentences.csv")
		if err := report.WriteScoreSummary(path, summary); err != nil {
			return nil, fmt.Errorf("writing sentence summary: %w", err)
		}
		result.Sentences = summary
	}

	run := core.NewRun(core.RunKindSIN, scoreFile)
	run.RowsIn = len(raw.Rows)
	run.RowsKept = len(raw.Rows)
	if s.archive != nil {
		if err := s.archive.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("archiving run: %w", err)
		}
	}
	result.Run = run
	return result, nil
}
