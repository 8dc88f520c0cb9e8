package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"

	"audival/domain/core"
	"audival/domain/dam"
	"audival/internal/logging"
)

// Vesta exports are named like 0123_smith_2024_Jan_05_1342.csv
var damFilePattern = regexp.MustCompile(
	`^\d{4}_\w+_\d{4}_(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)_\d{2}_\d{2}\d{2}\.csv$`,
)

// DAMImporter concatenates a session's raw trial exports from one folder.
type DAMImporter struct {
	logger *logging.Logger
}

// NewDAMImporter creates an importer logging through the given logger.
func NewDAMImporter(logger *logging.Logger) *DAMImporter {
	return &DAMImporter{logger: logger}
}

// ImportDir reads every CSV export under dir and concatenates the trial
// rows in filename order. Every file name is checked against the Vesta
// export pattern first; a batch with any misnamed file stops before
// reading, reporting all offenders at once so they can be fixed together.
func (imp *DAMImporter) ImportDir(ctx context.Context, dir string) ([]dam.Observation, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, core.ErrEmptyDataset
	}
	sort.Strings(files)

	var invalid []string
	for _, file := range files {
		name := filepath.Base(file)
		imp.logger.Info("Importing: %s", name)
		if !damFilePattern.MatchString(name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		for _, name := range invalid {
			imp.logger.Error("Invalid file name: %s", name)
		}
		return nil, core.NewInvalidFileNameError(invalid)
	}

	perFile := make([][]dam.Observation, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := readDAMFile(file)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			perFile[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate in sorted filename order so reruns are deterministic
	var all []dam.Observation
	for _, rows := range perFile {
		all = append(all, rows...)
	}
	imp.logger.Info("Imported %d trials from %d files", len(all), len(files))
	return all, nil
}

// readDAMFile reads one Vesta export into trial observations
func readDAMFile(path string) ([]dam.Observation, error) {
	table, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, err
	}

	observations := make([]dam.Observation, 0, len(table.Rows))
	for _, row := range table.Rows {
		observations = append(observations, dam.Observation{
			Subject:   row["subject"],
			Condition: row["condition"],
			ButtonA:   row["button_A"],
			ButtonB:   row["button_B"],
			AudioFile: row["audio_file"],
			Outcome:   row["outcome"],
		})
	}
	return observations, nil
}
